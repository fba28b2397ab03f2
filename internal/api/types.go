package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DeployRequest is the body of POST /deploy.
type DeployRequest struct {
	RepoURL     string `json:"repo_url"`
	GitHubToken string `json:"github_token"`
}

// StatusResponse is the body of GET /status. Fields the engine adds beyond
// these are ignored.
type StatusResponse struct {
	Status string   `json:"status"`
	Logs   []string `json:"logs,omitempty"`
	RunID  string   `json:"run_id,omitempty"`
}

// ErrorResponse is the error body returned by the engine. FastAPI style
// servers use "detail" (a string or a list of validation problems), others "message".
type ErrorResponse struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

// Text returns the most useful human-readable message in the body.
func (e ErrorResponse) Text() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(e.Detail, &detail); err == nil {
		return detail
	}

	var problems []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.Detail, &problems); err == nil {
		msgs := make([]string, 0, len(problems))
		for _, p := range problems {
			if p.Msg != "" {
				msgs = append(msgs, p.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return string(e.Detail)
}

// StatusError is returned for any response with a status code of 400 or above.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}
