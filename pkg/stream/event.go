package stream

// EventKind identifies the variant carried by an Event.
type EventKind int

const (
	// EventMalformed is a line that carried the event marker but could not
	// be parsed. It is never surfaced; the assembler treats it as a no-op.
	EventMalformed EventKind = iota
	EventToken
	EventStatus
	EventFinal
	EventError
	EventDone
)

func (k EventKind) String() string {
	switch k {
	case EventToken:
		return "token"
	case EventStatus:
		return "status"
	case EventFinal:
		return "final"
	case EventError:
		return "error"
	case EventDone:
		return "done"
	default:
		return "malformed"
	}
}

// Backend processing phases reported by status events.
const (
	PhaseChunking   = "chunking"
	PhaseProcessing = "processing"
	PhaseChunk      = "chunk"
	PhaseCombining  = "combining"
	PhaseFinalizing = "finalizing"
	PhaseError      = "error"
)

// StatusUpdate is a human-readable progress note for a multi-step backend run.
type StatusUpdate struct {
	Phase   string `json:"phase"`
	Message string `json:"message"`
}

// FinalAnswer is the authoritative complete answer. It supersedes all
// accumulated token and status content.
type FinalAnswer struct {
	Answer        string   `json:"answer"`
	FilesAnalyzed []string `json:"files_analyzed,omitempty"`
	FileCount     int      `json:"file_count,omitempty"`
}

// Event is one classified protocol event. Kind selects which payload field
// is meaningful.
type Event struct {
	Kind   EventKind
	Token  string
	Status StatusUpdate
	Final  FinalAnswer
	Err    string
}

func TokenEvent(text string) Event {
	return Event{Kind: EventToken, Token: text}
}

func StatusEvent(phase, message string) Event {
	return Event{Kind: EventStatus, Status: StatusUpdate{Phase: phase, Message: message}}
}

func FinalEvent(final FinalAnswer) Event {
	return Event{Kind: EventFinal, Final: final}
}

func ErrorEvent(message string) Event {
	return Event{Kind: EventError, Err: message}
}

func DoneEvent() Event {
	return Event{Kind: EventDone}
}

// IsTerminal reports whether processing this event ends the streaming
// lifecycle for a message.
func (e Event) IsTerminal() bool {
	switch e.Kind {
	case EventFinal, EventError, EventDone:
		return true
	default:
		return false
	}
}
