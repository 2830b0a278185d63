package dto

type LiveKitTokenResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
	Room  string `json:"room"`
}

// VoiceTranscript travels on the voice.<room>.transcript subject from
// the room media bridge to the voice worker.
type VoiceTranscript struct {
	UserId string `json:"user_id"`
	Room   string `json:"room"`
	Text   string `json:"text"`
}

// VoiceReply travels back on voice.<room>.reply for speech synthesis.
type VoiceReply struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

// ActivityItem is one entry from the platform activity feed.
type ActivityItem struct {
	Id    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}
