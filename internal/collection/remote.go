package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spec-kit/checkpad/internal/domain"
)

// Endpoint paths, one CRUD surface per table.
const (
	staffPath       = "/api/staff"
	casesPath       = "/api/maintenance-cases"
	assignmentsPath = "/api/maintenance-case-staff"
)

// Remote issues the CRUD calls behind optimistic mutations. Every call returns
// the transaction id the server committed under.
type Remote interface {
	InsertStaff(ctx context.Context, record domain.Staff) (int64, error)
	UpdateStaff(ctx context.Context, record domain.Staff) (int64, error)
	DeleteStaff(ctx context.Context, id string) (int64, error)

	InsertCase(ctx context.Context, record domain.MaintenanceCase, staffIDs []string) (int64, error)
	UpdateCase(ctx context.Context, record domain.MaintenanceCase, staffIDs *[]string) (int64, error)
	DeleteCase(ctx context.Context, id string) (int64, error)

	InsertAssignment(ctx context.Context, record domain.CaseStaffAssignment) (int64, error)
	DeleteAssignment(ctx context.Context, id string) (int64, error)
}

// HTTPRemote talks to the checkpad API over HTTP.
type HTTPRemote struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRemote builds a remote for the given base URL, e.g.
// "http://localhost:8080". A nil client falls back to http.DefaultClient.
func NewHTTPRemote(baseURL string, client *http.Client) *HTTPRemote {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRemote{baseURL: baseURL, client: client}
}

type caseBody struct {
	domain.MaintenanceCase
	StaffIDs *[]string `json:"staffIds,omitempty"`
}

type deleteBody struct {
	ID string `json:"id"`
}

func (r *HTTPRemote) InsertStaff(ctx context.Context, record domain.Staff) (int64, error) {
	return r.call(ctx, http.MethodPost, staffPath, record)
}

func (r *HTTPRemote) UpdateStaff(ctx context.Context, record domain.Staff) (int64, error) {
	return r.call(ctx, http.MethodPut, staffPath, record)
}

func (r *HTTPRemote) DeleteStaff(ctx context.Context, id string) (int64, error) {
	return r.call(ctx, http.MethodDelete, staffPath, deleteBody{ID: id})
}

func (r *HTTPRemote) InsertCase(ctx context.Context, record domain.MaintenanceCase, staffIDs []string) (int64, error) {
	body := caseBody{MaintenanceCase: record}
	if staffIDs != nil {
		body.StaffIDs = &staffIDs
	}
	return r.call(ctx, http.MethodPost, casesPath, body)
}

func (r *HTTPRemote) UpdateCase(ctx context.Context, record domain.MaintenanceCase, staffIDs *[]string) (int64, error) {
	return r.call(ctx, http.MethodPut, casesPath, caseBody{MaintenanceCase: record, StaffIDs: staffIDs})
}

func (r *HTTPRemote) DeleteCase(ctx context.Context, id string) (int64, error) {
	return r.call(ctx, http.MethodDelete, casesPath, deleteBody{ID: id})
}

func (r *HTTPRemote) InsertAssignment(ctx context.Context, record domain.CaseStaffAssignment) (int64, error) {
	return r.call(ctx, http.MethodPost, assignmentsPath, record)
}

func (r *HTTPRemote) DeleteAssignment(ctx context.Context, id string) (int64, error) {
	return r.call(ctx, http.MethodDelete, assignmentsPath, deleteBody{ID: id})
}

func (r *HTTPRemote) call(ctx context.Context, method, path string, body any) (int64, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return 0, decodeRemoteError(resp)
	}

	var tx struct {
		TxID int64 `json:"txid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return tx.TxID, nil
}

// decodeRemoteError turns an error response into a readable error. The server
// answers either {"error":"..."} or {"error":{"code","message",...}}.
func decodeRemoteError(resp *http.Response) error {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || len(envelope.Error) == 0 {
		return fmt.Errorf("remote call failed with status %d", resp.StatusCode)
	}

	var message string
	if err := json.Unmarshal(envelope.Error, &message); err != nil {
		var structured struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &structured); err == nil {
			message = structured.Message
		}
	}
	if message == "" {
		message = string(envelope.Error)
	}
	return fmt.Errorf("remote call failed with status %d: %s", resp.StatusCode, message)
}
