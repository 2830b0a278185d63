package dto

// WSInbound is a client -> server WebSocket frame.
type WSInbound struct {
	Type     string `json:"type"`
	Content  string `json:"content,omitempty"`
	ThreadId string `json:"thread_id,omitempty"`
	ModelId  string `json:"model_id,omitempty"`
}

// WSOutbound is a server -> client WebSocket frame. Fields are shared
// across types; only the ones relevant to Type are populated.
type WSOutbound struct {
	Type     string `json:"type"`
	Status   string `json:"status,omitempty"`
	Step     string `json:"step,omitempty"`
	Content  string `json:"content,omitempty"`
	ThreadId string `json:"thread_id,omitempty"`
	Current  int    `json:"current,omitempty"`
	Total    int    `json:"total,omitempty"`
	Title    string `json:"title,omitempty"`
	Message  string `json:"message,omitempty"`
}
