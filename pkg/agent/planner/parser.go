package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parsePlan extracts the structured decision from a raw model reply. Models
// routinely wrap JSON in markdown fences or prose, so the parser cuts the
// outermost JSON object out of the text before unmarshalling.
func parsePlan(response string) (*Plan, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var plan Plan
	if err := json.Unmarshal([]byte(jsonContent), &plan); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	plan.Reply = strings.TrimSpace(plan.Reply)

	// Drop requests without a tool name; the executor would reject them
	// anyway and they carry no information.
	valid := plan.ToolRequests[:0]
	for _, req := range plan.ToolRequests {
		if strings.TrimSpace(req.Tool) == "" {
			continue
		}
		if req.Arguments == nil {
			req.Arguments = map[string]interface{}{}
		}
		valid = append(valid, req)
	}
	plan.ToolRequests = valid

	if plan.Reply == "" && len(plan.ToolRequests) == 0 {
		return nil, fmt.Errorf("plan has neither reply nor tool requests")
	}

	return &plan, nil
}

func extractJSON(response string) string {
	response = stripCodeFences(response)

	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

func stripCodeFences(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "```") {
		return response
	}

	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
