package constant

// WebSocket message types, client -> server.
const (
	WSTypeTextIn       = "text_in"
	WSTypeSwitchThread = "switch_thread"
	WSTypeNewThread    = "new_thread"
)

// WebSocket message types, server -> client.
const (
	WSTypeStatus         = "status"
	WSTypeProvisioning   = "provisioning"
	WSTypeResponseDelta  = "response_delta"
	WSTypeResponseEnd    = "response_end"
	WSTypeThreadSwitched = "thread_switched"
	WSTypeThreadCreated  = "thread_created"
	WSTypeNotification   = "notification"
	WSTypeError          = "error"
)

const (
	WSStatusConnected = "connected"
	WSStatusThinking  = "thinking"
)

// Provisioning progress step tags, emitted in this order. Frontends key
// incremental setup UI off these values.
const (
	StepCreatingAssistant = "creating_assistant"
	StepUploadingDocs     = "uploading_docs"
	StepVerifying         = "verifying"
	StepCreatingThread    = "creating_thread"
	StepComplete          = "complete"
)
