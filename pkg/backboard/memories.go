package backboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListMemories returns the long-term memories the provider has
// extracted for an assistant.
func (c *Client) ListMemories(ctx context.Context, assistantID string) ([]Memory, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/assistants/"+assistantID+"/memories", nil, &raw); err != nil {
		return nil, err
	}

	var memories []Memory
	if err := json.Unmarshal(raw, &memories); err == nil {
		return memories, nil
	}

	var wrapped struct {
		Memories []Memory `json:"memories"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("backboard: unexpected memory list shape: %w", err)
	}
	return wrapped.Memories, nil
}

// AddMemory stores an explicit memory, bypassing automatic extraction.
func (c *Client) AddMemory(ctx context.Context, assistantID, content string) (*Memory, error) {
	body := map[string]string{"content": content}
	var memory Memory
	if err := c.doJSON(ctx, http.MethodPost, "/assistants/"+assistantID+"/memories", body, &memory); err != nil {
		return nil, err
	}
	return &memory, nil
}

func (c *Client) DeleteMemory(ctx context.Context, assistantID, memoryID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/assistants/"+assistantID+"/memories/"+memoryID, nil, nil)
}
