package stream

import (
	"context"
	"io"

	"github.com/medimind/mindline/pkg/logger"
)

// Run drives the decode, classify and assemble pipeline over one response
// body until a terminal event, stream closure, or context cancellation.
//
// Clean closure with no terminal event applies the implicit Done. A read
// error is returned to the caller without terminating the assembler: the
// caller decides whether to synthesize an error transition (the request
// controller does) or leave the message as last mutated (abandonment).
// onEvent, when non-nil, observes every classified event after it has been
// applied; UIs hang re-renders off it.
func Run(ctx context.Context, body io.Reader, asm *Assembler, onEvent func(Event)) error {
	decoder := NewLineDecoder(body)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("stream pipeline: abandoned (%v)", ctx.Err())
			return ctx.Err()
		default:
		}

		line, ok := decoder.Next()
		if !ok {
			break
		}

		ev, isEvent := ParseLine(line)
		if !isEvent {
			continue
		}

		asm.Apply(ev)
		if onEvent != nil {
			onEvent(ev)
		}

		if asm.Terminated() {
			logger.Debug("stream pipeline: terminated by %s event", ev.Kind)
			return nil
		}
	}

	if err := decoder.Err(); err != nil {
		return err
	}

	asm.Finish()
	if onEvent != nil {
		onEvent(DoneEvent())
	}
	return nil
}
