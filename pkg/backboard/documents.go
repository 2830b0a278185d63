package backboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// UploadDocument streams a local file to the assistant's knowledge base
// as a multipart upload. The provider indexes it asynchronously; poll
// ListDocuments to observe the status transition.
func (c *Client) UploadDocument(ctx context.Context, assistantID, filePath string) (*Document, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("backboard: open %s: %w", filePath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("backboard: read %s: %w", filePath, err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/assistants/"+assistantID+"/documents", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backboard: upload %s: %w", filepath.Base(filePath), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{Method: http.MethodPost, Path: "/assistants/" + assistantID + "/documents", StatusCode: resp.StatusCode, Body: string(data)}
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("backboard: decode upload response: %w", err)
	}
	return &doc, nil
}

// ListDocuments returns the documents attached to an assistant. The
// provider has shipped both a bare array and a wrapped object for this
// endpoint, so both shapes are accepted.
func (c *Client) ListDocuments(ctx context.Context, assistantID string) ([]Document, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/assistants/"+assistantID+"/documents", nil, &raw); err != nil {
		return nil, err
	}

	var docs []Document
	if err := json.Unmarshal(raw, &docs); err == nil {
		return docs, nil
	}

	var wrapped struct {
		Documents []Document `json:"documents"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("backboard: unexpected document list shape: %w", err)
	}
	return wrapped.Documents, nil
}

func (c *Client) DeleteDocument(ctx context.Context, assistantID, documentID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/assistants/"+assistantID+"/documents/"+documentID, nil, nil)
}
