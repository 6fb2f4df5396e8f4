// Package provision calls the hosted staff-provisioning function that
// creates the front-desk account in the external identity directory. The
// local users collection is maintained separately by the admin controller;
// this call is best-effort and out of band.
package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Error codes surfaced by the provisioning function.
const (
	CodeUnauthenticated  = "unauthenticated"
	CodePermissionDenied = "permission-denied"
	CodeInvalidArgument  = "invalid-argument"
	CodeInternal         = "internal"
)

// Error is the function's structured failure: a stable code plus the
// underlying message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("provision: %s: %s", e.Code, e.Message)
}

type CreateStaffRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type CreateStaffResult struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateStaff provisions a front-desk account remotely. The bearer token must
// belong to the designated admin; anything else comes back as a structured
// *Error.
func (c *Client) CreateStaff(ctx context.Context, bearer string, req CreateStaffRequest) (CreateStaffResult, error) {
	if req.Email == "" || req.Password == "" {
		return CreateStaffResult{}, &Error{
			Code:    CodeInvalidArgument,
			Message: "Missing required fields: email and password",
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return CreateStaffResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/createStaff", bytes.NewReader(body))
	if err != nil {
		return CreateStaffResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return CreateStaffResult{}, &Error{Code: CodeInternal, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var fnErr Error
		if err := json.NewDecoder(resp.Body).Decode(&fnErr); err != nil || fnErr.Code == "" {
			fnErr = Error{Code: codeForStatus(resp.StatusCode), Message: resp.Status}
		}
		return CreateStaffResult{}, &fnErr
	}

	var result CreateStaffResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return CreateStaffResult{}, &Error{Code: CodeInternal, Message: err.Error()}
	}
	return result, nil
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusForbidden:
		return CodePermissionDenied
	case http.StatusBadRequest:
		return CodeInvalidArgument
	default:
		return CodeInternal
	}
}
