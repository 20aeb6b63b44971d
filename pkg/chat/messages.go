package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a single conversation turn. Assistant messages are built
// incrementally while Streaming is true; user messages are immutable.
type Message struct {
	ID            string    `json:"id"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	Streaming     bool      `json:"streaming"`
	FilesAnalyzed []string  `json:"files_analyzed,omitempty"`
	FileCount     int       `json:"file_count,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   strings.TrimSpace(content),
		Timestamp: time.Now(),
	}
}

func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewStreamingPlaceholder returns the empty assistant message appended at the
// tail of a conversation when a request opens. It is the only message a
// stream may mutate.
func NewStreamingPlaceholder() Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   "",
		Streaming: true,
		Timestamp: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}
