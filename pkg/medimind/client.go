package medimind

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Client is an HTTP client for the MediMind backend.
//
// Plain request/response calls share a timeout-bounded http.Client. Ask uses
// a separate client with no overall timeout: the response body is a
// long-lived event stream whose lifetime is controlled by the caller's
// context, not by a deadline.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	streamClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: timeout},
		streamClient: &http.Client{},
	}
}

// Ping checks backend health.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping failed with status: %d", resp.StatusCode)
	}

	var ping PingResponse
	if err := json.NewDecoder(resp.Body).Decode(&ping); err != nil {
		return fmt.Errorf("failed to decode ping response: %w", err)
	}
	if ping.Status != "ok" {
		return fmt.Errorf("backend reported status %q", ping.Status)
	}
	return nil
}

// Files lists the uploaded documents.
func (c *Client) Files(ctx context.Context) (*FilesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create files request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("files request failed with status: %d", resp.StatusCode)
	}

	var files FilesResponse
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("failed to decode files response: %w", err)
	}
	return &files, nil
}

// Document is one in-memory document to upload.
type Document struct {
	Name    string
	Content io.Reader
}

// Upload submits one or more documents in a single multipart request under
// the `files` field.
func (c *Client) Upload(ctx context.Context, docs ...Document) (*UploadResponse, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents to upload")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, doc := range docs {
		part, err := writer.CreateFormFile("files", doc.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file for %s: %w", doc.Name, err)
		}
		if _, err := io.Copy(part, doc.Content); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", doc.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload failed with status: %d", resp.StatusCode)
	}

	var uploaded UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &uploaded, nil
}

// UploadPaths uploads the files at the given local paths.
func (c *Client) UploadPaths(ctx context.Context, paths ...string) (*UploadResponse, error) {
	docs := make([]Document, 0, len(paths))
	handles := make([]*os.File, 0, len(paths))
	defer func() {
		for _, f := range handles {
			f.Close()
		}
	}()

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		handles = append(handles, f)
		docs = append(docs, Document{Name: filepath.Base(path), Content: f})
	}

	return c.Upload(ctx, docs...)
}

// Delete removes a document by name. Deleting an absent name is reported by
// the server in the response status, not as a transport error.
func (c *Client) Delete(ctx context.Context, name string) (*DeleteResponse, error) {
	endpoint := c.baseURL + "/files/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("delete failed with status: %d", resp.StatusCode)
	}

	var deleted DeleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&deleted); err != nil {
		return nil, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return &deleted, nil
}

// Ask submits a question and returns the open response body carrying the
// line-delimited event stream. The caller owns the body and must close it;
// canceling ctx aborts the stream.
func (c *Client) Ask(ctx context.Context, question string) (io.ReadCloser, error) {
	body, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ask request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		errorBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("ask failed with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("ask failed with status %d: %s", resp.StatusCode, string(errorBody))
	}

	return resp.Body, nil
}

// PatientData fetches the demographic snapshot extracted from the documents.
func (c *Client) PatientData(ctx context.Context) (*PatientData, error) {
	var data PatientData
	if err := c.getJSON(ctx, "/patient-data", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ClinicalData fetches the structured clinical snapshot.
func (c *Client) ClinicalData(ctx context.Context) (*ClinicalData, error) {
	var data ClinicalData
	if err := c.getJSON(ctx, "/clinical-data", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s failed with status: %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
