//go:build ignore

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

var baseURL = "http://localhost:3000/api"

const sessionID = "smoke-test"

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
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

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func ask(step int, question string) {
	color.Yellow("\n[QUERY] %d. %s", step, question)
	resp, body, err := sendRequest("POST", "/chatbot/query", map[string]string{
		"question":   question,
		"session_id": sessionID,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Green("Status: %s", resp.Status)

	var out map[string]interface{}
	json.Unmarshal(body, &out)
	data, ok := out["data"].(map[string]interface{})
	if !ok {
		prettyPrint(out)
		return
	}
	fmt.Printf("Route: %v (confidence %v)\n", data["query_type"], data["confidence"])
	fmt.Printf("Reason: %v\n", data["routing_reason"])
	fmt.Printf("Rows: %v\n", data["row_count"])
	fmt.Printf("Answer: %v\n", data["answer"])
}

func main() {
	if v := os.Getenv("CHATBOT_BASE_URL"); v != "" {
		baseURL = v
	}
	color.Cyan("Starting chatbot API smoke test against %s\n", baseURL)

	color.Yellow("\n[HEALTH] Service status")
	resp, body, err := sendRequest("GET", "/chatbot/health", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var health map[string]interface{}
	json.Unmarshal(body, &health)
	prettyPrint(health)

	ask(1, "How many HCPs are in the target list?")
	ask(2, "What changed in version 3?")
	ask(3, "Compare version 2 and 4")
	ask(4, "Why was the influence score updated in version 3?")
	ask(5, "Find documents mentioning cardiology")
	ask(6, "What about the one before that?")
	ask(7, "What's the weather today?")

	color.Yellow("\n[HISTORY] Stored turns for %s", sessionID)
	resp, body, err = sendRequest("GET", "/chatbot/history/"+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var hist map[string]interface{}
		json.Unmarshal(body, &hist)
		prettyPrint(hist)
	}

	color.Yellow("\n[CLEANUP] Clear session")
	resp, body, err = sendRequest("POST", "/chatbot/clear-session?session_id="+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		fmt.Println(string(body))
	}

	color.Cyan("\nSmoke test complete")
}
