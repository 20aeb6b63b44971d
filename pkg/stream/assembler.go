package stream

import (
	"strings"

	"github.com/medimind/mindline/pkg/chat"
	"github.com/medimind/mindline/pkg/logger"
)

// Display markers reserved for status text. Real answer content never starts
// with these, which is what lets the token transition tell accumulated
// banners apart from accumulated answer text.
const (
	BannerMarker   = "⏳"
	ProgressMarker = "▸"
)

// rateLimitNotice replaces raw upstream rate-limit errors with something the
// user can act on.
const rateLimitNotice = "The language model is currently rate limited. Wait a moment and ask again."

// State tracks the lifecycle of the in-progress message.
type State int

const (
	StateEmpty State = iota
	StateAccumulating
	StateTerminated
)

// Assembler folds classified events, in arrival order, into the single
// in-progress message of a conversation. Exactly one terminal transition
// occurs per message; any event arriving after termination is ignored, so
// duplicate Final/Done lines or a trailing sentinel after an error cannot
// re-open or re-mutate the message.
type Assembler struct {
	conv   *chat.Conversation
	handle int
	state  State
}

// NewAssembler binds an assembler to the streaming placeholder at the given
// conversation handle.
func NewAssembler(conv *chat.Conversation, handle int) *Assembler {
	return &Assembler{conv: conv, handle: handle, state: StateEmpty}
}

// State returns the assembler's current lifecycle state.
func (a *Assembler) State() State {
	return a.state
}

// Terminated reports whether a terminal transition has already occurred.
func (a *Assembler) Terminated() bool {
	return a.state == StateTerminated
}

// Apply folds one event into the in-progress message.
func (a *Assembler) Apply(ev Event) {
	if a.state == StateTerminated {
		logger.Debug("stream assembler: ignoring %s event after termination", ev.Kind)
		return
	}

	switch ev.Kind {
	case EventToken:
		a.applyToken(ev.Token)
	case EventStatus:
		a.applyStatus(ev.Status)
	case EventFinal:
		a.applyFinal(ev.Final)
	case EventError:
		a.applyError(ev.Err)
	case EventDone:
		a.applyDone()
	case EventMalformed:
		// Dropped without surfacing; the stream continues.
	}
}

// Finish applies the implicit Done that stream closure stands for when no
// terminal event was seen. Safe to call after a terminal event.
func (a *Assembler) Finish() {
	if !a.Terminated() {
		a.Apply(DoneEvent())
	}
}

func (a *Assembler) applyToken(token string) {
	a.conv.Update(a.handle, func(m *chat.Message) {
		if isBannerOnly(m.Content) && m.Content != "" && !strings.Contains(m.Content, strings.TrimSpace(token)) {
			// First real content after progress banners: the banners are
			// display noise, not answer text, so they are replaced outright.
			m.Content = token
			return
		}
		m.Content += token
	})
	a.state = StateAccumulating
}

func (a *Assembler) applyStatus(status StatusUpdate) {
	a.conv.Update(a.handle, func(m *chat.Message) {
		switch status.Phase {
		case PhaseChunking, PhaseProcessing:
			m.Content = bannerLine(status.Message)
		case PhaseChunk:
			m.Content = replaceProgressLine(m.Content, progressLine(status.Message))
		default:
			// combining, finalizing and error notes stack under whatever
			// is already displayed.
			m.Content = appendLine(m.Content, bannerLine(status.Message))
		}
	})
	a.state = StateAccumulating
}

func (a *Assembler) applyFinal(final FinalAnswer) {
	a.conv.Update(a.handle, func(m *chat.Message) {
		m.Content = final.Answer
		m.FilesAnalyzed = final.FilesAnalyzed
		m.FileCount = final.FileCount
		m.Streaming = false
	})
	a.state = StateTerminated
}

func (a *Assembler) applyError(message string) {
	a.conv.Update(a.handle, func(m *chat.Message) {
		m.Content = rewriteKnownErrors(message)
		m.FilesAnalyzed = nil
		m.FileCount = 0
		m.Streaming = false
	})
	a.state = StateTerminated
}

func (a *Assembler) applyDone() {
	a.conv.Update(a.handle, func(m *chat.Message) {
		m.Streaming = false
	})
	a.state = StateTerminated
}

// isBannerOnly reports whether text consists solely of status display lines.
func isBannerOnly(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, BannerMarker) && !strings.HasPrefix(trimmed, ProgressMarker) {
			return false
		}
	}
	return true
}

func bannerLine(message string) string {
	return BannerMarker + " " + message
}

func progressLine(message string) string {
	return ProgressMarker + " " + message
}

// replaceProgressLine swaps the most recent per-chunk progress line for the
// new one instead of stacking duplicates; earlier banner lines are kept.
func replaceProgressLine(text, line string) string {
	if text == "" {
		return line
	}

	lines := strings.Split(text, "\n")
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), ProgressMarker) {
		lines[len(lines)-1] = line
		return strings.Join(lines, "\n")
	}
	return appendLine(text, line)
}

func appendLine(text, line string) string {
	if text == "" {
		return line
	}
	return text + "\n" + line
}

// rewriteKnownErrors special-cases upstream error strings that have a clearer
// user-facing form; anything unrecognized passes through verbatim.
func rewriteKnownErrors(message string) string {
	if strings.Contains(message, "429") || strings.Contains(strings.ToLower(message), "rate limit") {
		return rateLimitNotice
	}
	return message
}
