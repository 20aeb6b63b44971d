package stream

import (
	"encoding/json"
	"strings"
)

const (
	// eventMarker is the literal, case-sensitive prefix carried by every
	// protocol line. Lines without it are not events.
	eventMarker = "data:"

	// doneSentinel is the explicit end-of-stream token.
	doneSentinel = "[DONE]"
)

// linePayload mirrors the wire shape of one event payload. Exactly one field
// is expected to be present; pointers distinguish absent from zero-valued.
type linePayload struct {
	Error  *string       `json:"error"`
	Status *StatusUpdate `json:"status"`
	Token  *string       `json:"token"`
	Final  *FinalAnswer  `json:"final"`
}

// ParseLine classifies a raw line into an Event. The second return is false
// for lines that are not protocol events at all (no marker prefix); those
// are skipped silently. Marked lines that cannot be parsed, or that parse to
// an object with none of the recognized fields, classify as EventMalformed.
//
// When a payload carries more than one recognized field, classification
// follows a fixed precedence so behavior stays deterministic:
// error, then status, then token, then final.
func ParseLine(line string) (Event, bool) {
	if !strings.HasPrefix(line, eventMarker) {
		return Event{}, false
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, eventMarker))
	if payload == "" || payload == doneSentinel {
		return DoneEvent(), true
	}

	var parsed linePayload
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return Event{Kind: EventMalformed}, true
	}

	switch {
	case parsed.Error != nil:
		return ErrorEvent(*parsed.Error), true
	case parsed.Status != nil:
		return StatusEvent(parsed.Status.Phase, parsed.Status.Message), true
	case parsed.Token != nil:
		return TokenEvent(*parsed.Token), true
	case parsed.Final != nil:
		return FinalEvent(*parsed.Final), true
	default:
		return Event{Kind: EventMalformed}, true
	}
}
