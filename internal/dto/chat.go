package dto

// ChatResponse is the wire response for one chat turn. Images is nil for
// conversational turns and an (possibly empty) ordered URL list when the turn
// went through retrieval.
type ChatResponse struct {
	Response string   `json:"response"`
	Images   []string `json:"images"`
}
