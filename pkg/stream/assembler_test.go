package stream

import (
	"testing"

	"github.com/medimind/mindline/pkg/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssembler(t *testing.T) (*chat.Conversation, int, *Assembler) {
	t.Helper()

	conv := chat.NewConversation()
	conv.Append(chat.NewUserMessage("What do the labs show?"))
	handle := conv.BeginStreaming()
	return conv, handle, NewAssembler(conv, handle)
}

func messageAt(t *testing.T, conv *chat.Conversation, handle int) chat.Message {
	t.Helper()

	msg, ok := conv.Message(handle)
	require.True(t, ok)
	return msg
}

func TestAssemblerTokens(t *testing.T) {
	t.Run("should concatenate token fragments in order", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		for _, fragment := range []string{"The ", "labs ", "are ", "normal."} {
			asm.Apply(TokenEvent(fragment))
		}

		msg := messageAt(t, conv, handle)
		assert.Equal(t, "The labs are normal.", msg.Content)
		assert.True(t, msg.Streaming)
		assert.Equal(t, StateAccumulating, asm.State())
	})

	t.Run("should replace banner text with the first real token", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(StatusEvent(PhaseChunking, "Splitting document"))
		asm.Apply(TokenEvent("Patient "))
		asm.Apply(TokenEvent("is stable."))

		msg := messageAt(t, conv, handle)
		assert.Equal(t, "Patient is stable.", msg.Content)
	})

	t.Run("should append normally when the token repeats banner content", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(StatusEvent(PhaseChunking, "Splitting document"))
		asm.Apply(TokenEvent("Splitting document"))

		// The containment heuristic cannot tell this token from the banner,
		// so it appends rather than replacing.
		msg := messageAt(t, conv, handle)
		assert.Equal(t, BannerMarker+" Splitting documentSplitting document", msg.Content)
	})
}

func TestAssemblerStatus(t *testing.T) {
	t.Run("should replace displayed text on chunking and processing phases", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(StatusEvent(PhaseChunking, "Splitting document"))
		assert.Equal(t, BannerMarker+" Splitting document", messageAt(t, conv, handle).Content)

		asm.Apply(StatusEvent(PhaseProcessing, "Analyzing 3 sections"))
		assert.Equal(t, BannerMarker+" Analyzing 3 sections", messageAt(t, conv, handle).Content)
	})

	t.Run("should overwrite the previous per-chunk progress line", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(StatusEvent(PhaseChunking, "Splitting document"))
		asm.Apply(StatusEvent(PhaseChunk, "Section 1 of 3"))
		asm.Apply(StatusEvent(PhaseChunk, "Section 2 of 3"))
		asm.Apply(StatusEvent(PhaseChunk, "Section 3 of 3"))

		msg := messageAt(t, conv, handle)
		assert.Equal(t, BannerMarker+" Splitting document\n"+ProgressMarker+" Section 3 of 3", msg.Content)
	})

	t.Run("should stack combining and finalizing banners", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(StatusEvent(PhaseChunking, "Splitting document"))
		asm.Apply(StatusEvent(PhaseCombining, "Combining sections"))
		asm.Apply(StatusEvent(PhaseFinalizing, "Writing answer"))

		msg := messageAt(t, conv, handle)
		assert.Equal(t,
			BannerMarker+" Splitting document\n"+BannerMarker+" Combining sections\n"+BannerMarker+" Writing answer",
			msg.Content)
		assert.True(t, msg.Streaming, "status events never terminate the stream")
	})
}

func TestAssemblerTerminalEvents(t *testing.T) {
	t.Run("should let final overwrite all accumulated content", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(TokenEvent("partial tok"))
		asm.Apply(FinalEvent(FinalAnswer{Answer: "X", FilesAnalyzed: []string{"a.txt"}, FileCount: 1}))

		msg := messageAt(t, conv, handle)
		assert.Equal(t, "X", msg.Content)
		assert.Equal(t, []string{"a.txt"}, msg.FilesAnalyzed)
		assert.Equal(t, 1, msg.FileCount)
		assert.False(t, msg.Streaming)
		assert.True(t, asm.Terminated())
	})

	t.Run("should replace content and clear file metadata on error", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(TokenEvent("par"))
		asm.Apply(ErrorEvent("upstream exploded"))

		msg := messageAt(t, conv, handle)
		assert.Equal(t, "upstream exploded", msg.Content)
		assert.Nil(t, msg.FilesAnalyzed)
		assert.Zero(t, msg.FileCount)
		assert.False(t, msg.Streaming)
	})

	t.Run("should rewrite rate limit errors into an actionable message", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(ErrorEvent("Error code: 429"))

		msg := messageAt(t, conv, handle)
		assert.Equal(t, rateLimitNotice, msg.Content)
		assert.False(t, msg.Streaming)
	})

	t.Run("should finalize without altering text on done", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(TokenEvent("hi"))
		asm.Apply(DoneEvent())

		msg := messageAt(t, conv, handle)
		assert.Equal(t, "hi", msg.Content)
		assert.False(t, msg.Streaming)
		assert.True(t, asm.Terminated())
	})

	t.Run("should terminate an empty stream directly from the placeholder", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Finish()

		msg := messageAt(t, conv, handle)
		assert.Equal(t, "", msg.Content)
		assert.False(t, msg.Streaming)
		assert.True(t, asm.Terminated())
	})
}

func TestAssemblerIdempotentTermination(t *testing.T) {
	t.Run("should ignore every event after final", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(FinalEvent(FinalAnswer{Answer: "done", FilesAnalyzed: []string{"a.txt"}, FileCount: 1}))
		terminal := messageAt(t, conv, handle)

		asm.Apply(TokenEvent("stray"))
		asm.Apply(StatusEvent(PhaseFinalizing, "late"))
		asm.Apply(FinalEvent(FinalAnswer{Answer: "other"}))
		asm.Apply(ErrorEvent("late failure"))
		asm.Apply(DoneEvent())

		assert.Equal(t, terminal, messageAt(t, conv, handle))
	})

	t.Run("should not re-enter accumulation after an error", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(TokenEvent("par"))
		asm.Apply(ErrorEvent("Error code: 429"))
		after := messageAt(t, conv, handle)

		asm.Apply(TokenEvent("tial"))
		asm.Apply(DoneEvent())

		assert.Equal(t, after, messageAt(t, conv, handle))
		assert.Equal(t, StateTerminated, asm.State())
	})

	t.Run("should keep malformed events as no-ops in every state", func(t *testing.T) {
		conv, handle, asm := newTestAssembler(t)

		asm.Apply(Event{Kind: EventMalformed})
		assert.Equal(t, StateEmpty, asm.State())

		asm.Apply(TokenEvent("hi"))
		asm.Apply(Event{Kind: EventMalformed})
		assert.Equal(t, "hi", messageAt(t, conv, handle).Content)
	})
}
