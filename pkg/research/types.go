package research

// Link is a search result worth visiting for a topic.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Visit is the markdown content retrieved from one link.
type Visit struct {
	URL       string `json:"url"`
	PageTitle string `json:"page_title"`
	Content   string `json:"content"`
}

// Report is the final output of a research run.
type Report struct {
	Title    string  `json:"title"`
	Document string  `json:"document"`
	Links    []Link  `json:"links"`
	Visits   []Visit `json:"visits"`
}
