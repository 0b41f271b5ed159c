package glp

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/kailas-cloud/greenlake/internal/domain"
)

func TestDecodeAPIError_Structured(t *testing.T) {
	body := []byte(`{
		"message": "subscription not found",
		"errorCode": "HPE_GL_NOT_FOUND",
		"debugId": "d-123",
		"httpStatusCode": 404,
		"workspace": {"id": "11111111-2222-3333-4444-555555555555", "name": "acme"}
	}`)

	apiErr := decodeAPIError(http.StatusNotFound, body)
	if apiErr.Message != "subscription not found" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
	if apiErr.ErrorCode != "HPE_GL_NOT_FOUND" {
		t.Errorf("unexpected code %q", apiErr.ErrorCode)
	}
	if apiErr.DebugID != "d-123" {
		t.Errorf("unexpected debug id %q", apiErr.DebugID)
	}
	if apiErr.WorkspaceID != "11111111-2222-3333-4444-555555555555" || apiErr.WorkspaceName != "acme" {
		t.Errorf("unexpected workspace %q/%q", apiErr.WorkspaceID, apiErr.WorkspaceName)
	}
}

func TestDecodeAPIError_TextFallback(t *testing.T) {
	body := []byte(`HPE_GL_ERROR_FORBIDDEN: access denied for workspace: 0a1b2c3d-0000-1111-2222-333344445555`)

	apiErr := decodeAPIError(http.StatusForbidden, body)
	if apiErr.ErrorCode != "HPE_GL_ERROR_FORBIDDEN" {
		t.Errorf("expected code scraped from text, got %q", apiErr.ErrorCode)
	}
	if apiErr.WorkspaceID != "0a1b2c3d-0000-1111-2222-333344445555" {
		t.Errorf("expected workspace id scraped from text, got %q", apiErr.WorkspaceID)
	}
}

func TestDecodeAPIError_MessageWorkspaceScan(t *testing.T) {
	body := []byte(`{"message": "operation rejected in workspace 99999999-8888-7777-6666-555544443333"}`)

	apiErr := decodeAPIError(http.StatusConflict, body)
	if apiErr.WorkspaceID != "99999999-8888-7777-6666-555544443333" {
		t.Errorf("expected workspace id scraped from message, got %q", apiErr.WorkspaceID)
	}
}

func TestAPIError_UnwrapMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrAlreadyExists},
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrUnauthorized},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
	}
	for _, tt := range tests {
		err := &APIError{Status: tt.status}
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: expected %v mapping", tt.status, tt.want)
		}
	}

	plain := &APIError{Status: http.StatusInternalServerError}
	if errors.Is(plain, domain.ErrNotFound) {
		t.Error("500 must not map to a sentinel")
	}
}

func TestAPIError_ErrorString(t *testing.T) {
	err := &APIError{
		Status:      http.StatusConflict,
		Message:     "already exists",
		ErrorCode:   "HPE_GL_CONFLICT",
		WorkspaceID: "ws-1",
	}
	got := err.Error()
	for _, want := range []string{"409", "HPE_GL_CONFLICT", "already exists", "ws-1"} {
		if !strings.Contains(got, want) {
			t.Errorf("error string %q missing %q", got, want)
		}
	}
}
