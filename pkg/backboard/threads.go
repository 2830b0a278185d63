package backboard

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

func (c *Client) CreateThread(ctx context.Context, assistantID string) (*Thread, error) {
	var thread Thread
	if err := c.doJSON(ctx, http.MethodPost, "/assistants/"+assistantID+"/threads", nil, &thread); err != nil {
		return nil, err
	}
	if thread.ThreadID == "" {
		return nil, fmt.Errorf("backboard: create thread response missing thread_id")
	}
	return &thread, nil
}

func (c *Client) GetThread(ctx context.Context, threadID string) (*Thread, error) {
	var thread Thread
	if err := c.doJSON(ctx, http.MethodGet, "/threads/"+threadID, nil, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

func (c *Client) ListThreads(ctx context.Context, assistantID string) ([]Thread, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/assistants/"+assistantID+"/threads", nil, &raw); err != nil {
		return nil, err
	}

	var threads []Thread
	if err := json.Unmarshal(raw, &threads); err == nil {
		return threads, nil
	}

	var wrapped struct {
		Threads []Thread `json:"threads"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("backboard: unexpected thread list shape: %w", err)
	}
	return wrapped.Threads, nil
}

func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/threads/"+threadID, nil, nil)
}

// streamEvent is one SSE payload emitted while a message is generated.
type streamEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

const (
	eventContentStreaming = "content_streaming"
	eventMessageComplete  = "message_complete"
)

// SendMessage posts a turn to a thread and streams the reply. onToken
// is invoked for every content delta as it arrives; the accumulated
// reply is returned once the stream completes. A nil onToken collects
// the reply without intermediate callbacks.
func (c *Client) SendMessage(ctx context.Context, threadID string, opts MessageOptions, onToken func(delta string)) (string, error) {
	memory := opts.Memory
	if memory == "" {
		memory = "auto"
	}
	form := url.Values{}
	form.Set("content", opts.Content)
	form.Set("llm_provider", opts.Provider)
	form.Set("model_name", opts.Model)
	form.Set("stream", "true")
	form.Set("memory", memory)

	req, err := c.newRequest(ctx, http.MethodPost, "/threads/"+threadID+"/messages", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("backboard: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf [4096]byte
		n, _ := resp.Body.Read(buf[:])
		return "", &APIError{Method: http.MethodPost, Path: "/threads/" + threadID + "/messages", StatusCode: resp.StatusCode, Body: string(buf[:n])}
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			if data == "[DONE]" {
				break
			}
			continue
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			// Skip malformed keep-alive or comment payloads.
			continue
		}
		switch ev.Type {
		case eventContentStreaming:
			if ev.Content != "" {
				full.WriteString(ev.Content)
				if onToken != nil {
					onToken(ev.Content)
				}
			}
		case eventMessageComplete:
			// Authoritative final text when the provider sends it.
			if ev.Content != "" {
				return ev.Content, nil
			}
			return full.String(), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("backboard: read stream: %w", err)
	}
	return full.String(), nil
}
