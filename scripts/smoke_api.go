package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func dataField(body []byte, key string) string {
	var parsed map[string]interface{}
	json.Unmarshal(body, &parsed)
	if data, ok := parsed["data"].(map[string]interface{}); ok {
		if v, ok := data[key].(string); ok {
			return v
		}
	}
	return ""
}

func main() {
	color.Cyan("Starting Research API smoke test\n")

	// 1. Register a throwaway account
	email := fmt.Sprintf("smoke-%d@example.com", time.Now().Unix())
	color.Yellow("\n[AUTH] 1. Register %s", email)
	resp, body, err := sendRequest("POST", "/auth/v1/register", "", map[string]interface{}{
		"email":     email,
		"full_name": "Smoke Tester",
		"password":  "smoketest-password",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 2. Login
	color.Yellow("\n[AUTH] 2. Login")
	resp, body, err = sendRequest("POST", "/auth/v1/login", "", map[string]interface{}{
		"email":    email,
		"password": "smoketest-password",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	token := dataField(body, "token")
	if token == "" {
		color.Red("No token in login response")
		os.Exit(1)
	}

	// 3. Public footer, no auth required
	color.Yellow("\n[VIEW] 3. Get Footer")
	resp, body, err = sendRequest("GET", "/view/v1/footer", "", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var footerResp map[string]interface{}
	json.Unmarshal(body, &footerResp)
	prettyPrint(footerResp)

	// 4. Create a notebook with no title or topic, the card should fall back
	color.Yellow("\n[NOTEBOOK] 4. Create empty notebook")
	resp, body, err = sendRequest("POST", "/notebook/v1", token, map[string]interface{}{})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	notebookID := dataField(body, "id")
	if notebookID == "" {
		color.Red("No notebook id in response")
		os.Exit(1)
	}

	// 5. Card projection: expect Untitled Notebook / No topic provided / Queued
	color.Yellow("\n[VIEW] 5. Get notebook card")
	resp, body, err = sendRequest("GET", "/view/v1/notebooks/"+notebookID+"/card", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var cardResp map[string]interface{}
	json.Unmarshal(body, &cardResp)
	prettyPrint(cardResp)

	// 6. Submit a research task
	color.Yellow("\n[RESEARCH] 6. Submit research task")
	resp, body, err = sendRequest("POST", "/research/v1/tasks", token, map[string]interface{}{
		"notebook_id": notebookID,
		"topic":       "The history of the transistor",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	taskID := dataField(body, "task_id")
	prettyPrint(map[string]string{"task_id": taskID})

	// 7. Poll task status a few times
	for i := 1; i <= 5; i++ {
		color.Yellow("\n[RESEARCH] 7.%d Poll task status", i)
		resp, body, err = sendRequest("GET", "/research/v1/tasks/"+taskID, token, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		var statusResp map[string]interface{}
		json.Unmarshal(body, &statusResp)
		prettyPrint(statusResp)
		time.Sleep(5 * time.Second)
	}

	// 8. Final card, should reflect the task outcome
	color.Yellow("\n[VIEW] 8. Get notebook card again")
	resp, body, err = sendRequest("GET", "/view/v1/notebooks/"+notebookID+"/card", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	json.Unmarshal(body, &cardResp)
	prettyPrint(cardResp)

	color.Cyan("\nSmoke test finished")
}
