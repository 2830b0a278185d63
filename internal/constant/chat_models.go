package constant

// ChatModel is one entry of the curated model catalog exposed to the
// frontend. The id is the short identifier clients send back in
// text_in messages to override the default model per message.
type ChatModel struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Label    string `json:"label"`
}

var ChatModels = []ChatModel{
	{ID: "claude-sonnet", Provider: "anthropic", Model: "claude-sonnet-4-5-20250929", Label: "Claude Sonnet 4.5"},
	{ID: "gpt-4o", Provider: "openai", Model: "gpt-4o", Label: "GPT-4o"},
	{ID: "grok-4-fast", Provider: "xai", Model: "grok-4-1-fast-non-reasoning", Label: "Grok 4 Fast"},
	{ID: "gemini-2.5", Provider: "google", Model: "gemini-2.5-pro", Label: "Gemini 2.5 Pro"},
}

const DefaultChatModelID = "claude-sonnet"

var chatModelIndex = func() map[string]ChatModel {
	m := make(map[string]ChatModel, len(ChatModels))
	for _, cm := range ChatModels {
		m[cm.ID] = cm
	}
	return m
}()

// ChatModelByID looks up a catalog entry by its short id.
func ChatModelByID(id string) (ChatModel, bool) {
	cm, ok := chatModelIndex[id]
	return cm, ok
}
