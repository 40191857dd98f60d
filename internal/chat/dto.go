package chat

import "time"

// NOTE: commands travel from handler to usecase
// Note: DTO travels from usecase to handler
type SendMessageCommand struct {
	From     string         `json:"from_user"`
	To       string         `json:"to_user"`
	Text     string         `json:"text"`
	FileInfo map[string]any `json:"file_info,omitempty"`
}

type MessageDTO struct {
	From      string         `json:"from_user"`
	To        string         `json:"to_user"`
	Text      string         `json:"text"`
	Timestamp time.Time      `json:"timestamp"`
	FileInfo  map[string]any `json:"file_info,omitempty"`
}
