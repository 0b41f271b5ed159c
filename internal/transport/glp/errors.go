package glp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/kailas-cloud/greenlake/internal/domain"
)

// APIError is a decoded platform API error response.
type APIError struct {
	Status        int
	Message       string
	ErrorCode     string
	DebugID       string
	WorkspaceID   string
	WorkspaceName string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "glp: API error %d", e.Status)
	if e.ErrorCode != "" {
		fmt.Fprintf(&b, " (%s)", e.ErrorCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.WorkspaceID != "" {
		fmt.Fprintf(&b, " [workspace %s]", e.WorkspaceID)
	}
	return b.String()
}

// Unwrap maps HTTP statuses onto domain sentinels for errors.Is checks.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrAlreadyExists
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	}
	return nil
}

// errorBody is the structured GLP error response shape.
type errorBody struct {
	Message        string `json:"message"`
	ErrorCode      string `json:"errorCode"`
	DebugID        string `json:"debugId"`
	HTTPStatusCode int    `json:"httpStatusCode"`
	Workspace      struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"workspace"`
}

var (
	workspaceIDRegex = regexp.MustCompile(`workspace[ _-]?(?:id)?[:= ]+\s*([0-9a-fA-F-]{8,36})`)
	errorCodeRegex   = regexp.MustCompile(`\b([A-Z][A-Z0-9]*(?:_[A-Z0-9]+)+|[A-Z]{2,}-\d{3,})\b`)
)

// decodeAPIError extracts structured error fields from a response
// body. Bodies that do not match the structured shape fall back to a
// regex scan of the raw text for workspace id and error code.
func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		apiErr.Message = parsed.Message
		apiErr.ErrorCode = parsed.ErrorCode
		apiErr.DebugID = parsed.DebugID
		apiErr.WorkspaceID = parsed.Workspace.ID
		apiErr.WorkspaceName = parsed.Workspace.Name
		if apiErr.WorkspaceID == "" {
			if m := workspaceIDRegex.FindStringSubmatch(parsed.Message); m != nil {
				apiErr.WorkspaceID = m[1]
			}
		}
		return apiErr
	}

	text := strings.TrimSpace(string(body))
	apiErr.Message = text
	if m := workspaceIDRegex.FindStringSubmatch(text); m != nil {
		apiErr.WorkspaceID = m[1]
	}
	if m := errorCodeRegex.FindStringSubmatch(text); m != nil {
		apiErr.ErrorCode = m[1]
	}
	return apiErr
}
