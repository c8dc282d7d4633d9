package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const (
	baseURL = "http://localhost:3000/api"
)

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

	client := &http.Client{} // No timeout, LLM calls can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func login(email, password string) string {
	resp, body, err := sendRequest("POST", "/auth/v1/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil || resp.StatusCode != http.StatusOK {
		color.Red("Login failed for %s: %v (%s)", email, err, string(body))
		os.Exit(1)
	}
	var loginResp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	json.Unmarshal(body, &loginResp)
	return loginResp.Data.Token
}

func main() {
	color.Cyan("🚀 Starting Support Agent API Test\n")

	customerToken := login("customer@example.com", "customer12345")
	adminToken := login("admin@support.local", "admin12345")

	// 1. Customer: list available tools (should be empty for plain users)
	color.Yellow("\n[CUSTOMER] 1. List Available Tools")
	resp, body, err := sendRequest("GET", "/agent/v1/tools", customerToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var toolsResp map[string]interface{}
	json.Unmarshal(body, &toolsResp)
	prettyPrint(toolsResp)

	// 2. Customer: empty message should return the greeting
	color.Yellow("\n[CUSTOMER] 2. Empty Message -> Greeting")
	resp, body, err = sendRequest("POST", "/agent/v1/chat", customerToken, map[string]interface{}{})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var chatResp map[string]interface{}
	json.Unmarshal(body, &chatResp)
	prettyPrint(chatResp)

	// 3. Customer: grounded question against the seeded knowledge base
	color.Yellow("\n[CUSTOMER] 3. Ask About Password Reset")
	resp, body, err = sendRequest("POST", "/agent/v1/chat", customerToken, map[string]interface{}{
		"message": "How do I reset my password?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	json.Unmarshal(body, &chatResp)
	prettyPrint(chatResp)

	traceId, _ := chatResp["data"].(map[string]interface{})["trace_id"].(string)

	// 4. Customer: usage counter after two exchanges
	color.Yellow("\n[CUSTOMER] 4. Check Daily Usage")
	resp, body, err = sendRequest("GET", "/agent/v1/usage", customerToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var usageResp map[string]interface{}
	json.Unmarshal(body, &usageResp)
	prettyPrint(usageResp)

	// 5. Admin: list tools (close_ticket and friends should show up)
	color.Yellow("\n[ADMIN] 5. List Available Tools")
	resp, body, err = sendRequest("GET", "/agent/v1/tools", adminToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	json.Unmarshal(body, &toolsResp)
	prettyPrint(toolsResp)

	// 6. Admin: metrics for the customer's trace (recorded async, may lag)
	if traceId != "" {
		color.Yellow("\n[ADMIN] 6. Fetch Metrics for Trace %s", traceId)
		resp, body, err = sendRequest("GET", "/agent/v1/metrics/"+traceId, adminToken, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		var metricsResp map[string]interface{}
		json.Unmarshal(body, &metricsResp)
		prettyPrint(metricsResp)
	}

	color.Cyan("\n✅ Test flow completed")
}
