package backboard

// Document indexing states reported by the provider. A document only
// contributes to RAG answers once it reaches StatusIndexed.
const (
	StatusPending = "pending"
	StatusIndexed = "indexed"
	StatusFailed  = "failed"
)

type Assistant struct {
	AssistantID string `json:"assistant_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type CreateAssistantRequest struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	SystemPrompt       string `json:"system_prompt"`
	EmbeddingProvider  string `json:"embedding_provider,omitempty"`
	EmbeddingModelName string `json:"embedding_model_name,omitempty"`
	EmbeddingDims      int    `json:"embedding_dims,omitempty"`
}

type Document struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
}

type ThreadMessage struct {
	MessageID string `json:"message_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type Thread struct {
	ThreadID  string          `json:"thread_id"`
	CreatedAt string          `json:"created_at"`
	Messages  []ThreadMessage `json:"messages"`
}

type Memory struct {
	MemoryID string                 `json:"memory_id"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// MessageOptions carries a single turn sent to a thread. Provider and
// Model select the upstream LLM; Memory defaults to "auto" which lets
// the provider extract and recall facts on its own.
type MessageOptions struct {
	Content  string
	Provider string
	Model    string
	Memory   string
}
