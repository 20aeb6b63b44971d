package chat

import "sync"

// Conversation is an ordered, append-only sequence of messages. The only
// permitted mutation is in-place update of the tail message while it is
// streaming; everything before the tail is immutable once appended.
//
// Mutating entries are addressed by the integer handle returned from Append
// and BeginStreaming rather than through shared "current message" state, so
// the stream pipeline can be tested against a Conversation directly.
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
}

func NewConversation() *Conversation {
	return &Conversation{messages: make([]Message, 0)}
}

// Append adds a message at the tail and returns its handle.
func (c *Conversation) Append(msg Message) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, msg)
	return len(c.messages) - 1
}

// BeginStreaming appends the streaming assistant placeholder and returns its
// handle. The caller must finalize it through Update before appending again.
func (c *Conversation) BeginStreaming() int {
	return c.Append(NewStreamingPlaceholder())
}

// Message returns a copy of the message at the given handle.
func (c *Conversation) Message(handle int) (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if handle < 0 || handle >= len(c.messages) {
		return Message{}, false
	}
	return c.messages[handle], true
}

// Update mutates the message at the given handle. It only succeeds for the
// tail message while that message is streaming; earlier messages and
// finalized tails are immutable.
func (c *Conversation) Update(handle int, fn func(*Message)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if handle != len(c.messages)-1 || handle < 0 {
		return false
	}
	if !c.messages[handle].Streaming {
		return false
	}

	fn(&c.messages[handle])
	return true
}

// Messages returns a copy of the full message sequence in insertion order.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Message, len(c.messages))
	copy(result, c.messages)
	return result
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

func (c *Conversation) Last() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// HasStreamingTail reports whether the tail message is still receiving
// streamed updates.
func (c *Conversation) HasStreamingTail() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.messages) == 0 {
		return false
	}
	return c.messages[len(c.messages)-1].Streaming
}
