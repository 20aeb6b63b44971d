package controllers

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/medimind/mindline/pkg/chat"
	"github.com/medimind/mindline/pkg/logger"
	"github.com/medimind/mindline/pkg/stream"
)

// StreamClient opens one event stream per submitted question.
type StreamClient interface {
	Ask(ctx context.Context, question string) (io.ReadCloser, error)
}

// ErrBusy rejects a submission made while a stream is already in flight.
// One streaming request at a time; the flag here is the guard, not the UI.
var ErrBusy = errors.New("a request is already in flight")

// ErrEmptyQuestion rejects a submission with no content.
var ErrEmptyQuestion = errors.New("question cannot be empty")

// connectivityFailure is the synthesized assistant text when the transport
// fails before any terminal event arrives.
const connectivityFailure = "Could not reach the MediMind backend. Check that the server is running and try again."

// ChatController brackets one user turn: it appends the user message and the
// streaming placeholder, opens the request, drives the pipeline, and owns
// the loading flag. The terminal transition happens exactly once per turn,
// whichever of final/error/done/closure arrives first.
type ChatController struct {
	client       StreamClient
	conversation *chat.Conversation

	mu      sync.Mutex
	loading bool
	cancel  context.CancelFunc

	onUpdate func()
}

func NewChatController(client StreamClient) *ChatController {
	return &ChatController{
		client:       client,
		conversation: chat.NewConversation(),
	}
}

// SetOnUpdate registers a callback fired after every conversation mutation.
// UIs hang re-renders off it; it runs on the pipeline goroutine.
func (cc *ChatController) SetOnUpdate(fn func()) {
	cc.onUpdate = fn
}

// Loading reports whether a stream is currently in flight.
func (cc *ChatController) Loading() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.loading
}

// Messages returns a snapshot of the conversation.
func (cc *ChatController) Messages() []chat.Message {
	return cc.conversation.Messages()
}

// Conversation exposes the underlying store.
func (cc *ChatController) Conversation() *chat.Conversation {
	return cc.conversation
}

// Submit runs one full turn and blocks until the turn terminates. Transport
// failures surface as the assistant's response text rather than as a
// returned error; only rejected submissions return an error.
func (cc *ChatController) Submit(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrEmptyQuestion
	}

	ctx, handle, err := cc.begin(ctx, question)
	if err != nil {
		return err
	}
	defer cc.finish()
	cc.notify()

	asm := stream.NewAssembler(cc.conversation, handle)

	body, err := cc.client.Ask(ctx, question)
	if err != nil {
		logger.Error("chat controller: failed to open stream: %v", err)
		asm.Apply(stream.ErrorEvent(connectivityFailure))
		cc.notify()
		return nil
	}
	defer body.Close()

	err = stream.Run(ctx, body, asm, func(stream.Event) { cc.notify() })
	switch {
	case err == nil:
		// Terminated by an event or by clean closure (implicit done).
	case errors.Is(err, context.Canceled):
		// Abandoned: stop driving mutation, leave the message as last
		// mutated. The placeholder may still read as streaming; Reset or a
		// later turn never touches it again because the assembler is gone.
		logger.Info("chat controller: stream abandoned")
	default:
		logger.Error("chat controller: stream failed mid-flight: %v", err)
		if !asm.Terminated() {
			asm.Apply(stream.ErrorEvent(connectivityFailure))
			cc.notify()
		}
	}

	return nil
}

// Abort cancels the in-flight stream, if any.
func (cc *ChatController) Abort() {
	cc.mu.Lock()
	cancel := cc.cancel
	cc.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (cc *ChatController) begin(ctx context.Context, question string) (context.Context, int, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.loading {
		return nil, 0, ErrBusy
	}

	cc.conversation.Append(chat.NewUserMessage(question))
	handle := cc.conversation.BeginStreaming()

	ctx, cc.cancel = context.WithCancel(ctx)
	cc.loading = true

	return ctx, handle, nil
}

// finish drops the loading flag. Submit has a single exit path, so this runs
// exactly once per accepted turn no matter which terminal signal fired.
func (cc *ChatController) finish() {
	cc.mu.Lock()
	if cc.cancel != nil {
		cc.cancel()
		cc.cancel = nil
	}
	cc.loading = false
	cc.mu.Unlock()

	cc.notify()
}

func (cc *ChatController) notify() {
	if cc.onUpdate != nil {
		cc.onUpdate()
	}
}
