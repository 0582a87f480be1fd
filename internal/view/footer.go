package view

import "time"

type FooterLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Footer is the static page footer payload. The copyright year is taken from
// the wall clock on every call so a long-lived process rolls over correctly.
type Footer struct {
	ProductName   string       `json:"product_name"`
	Links         []FooterLink `json:"links"`
	CopyrightYear int          `json:"copyright_year"`
}

var footerLinks = []FooterLink{
	{Label: "Home", Href: "/"},
	{Label: "Notebooks", Href: "/notebooks"},
	{Label: "About", Href: "/about"},
	{Label: "GitHub", Href: "https://github.com/decipher-research"},
}

func BuildFooter(now time.Time) *Footer {
	return &Footer{
		ProductName:   "Decipher Research",
		Links:         footerLinks,
		CopyrightYear: now.Year(),
	}
}
