package testutil

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// FakeStreamClient replays a scripted event-stream body, standing in for the
// MediMind backend in controller and pipeline tests.
type FakeStreamClient struct {
	// Script holds the protocol lines of the response body, one per entry.
	Script []string

	// AskErr, when set, is returned from Ask before any body is opened.
	AskErr error

	// ChunkSize splits body reads into chunks of at most this many bytes.
	// Zero serves the whole body in one read.
	ChunkSize int

	// FailAfter injects a read error after this many bytes. Zero disables.
	FailAfter int
	FailWith  error

	mu    sync.Mutex
	asked []string
}

func (f *FakeStreamClient) Ask(ctx context.Context, question string) (io.ReadCloser, error) {
	f.mu.Lock()
	f.asked = append(f.asked, question)
	f.mu.Unlock()

	if f.AskErr != nil {
		return nil, f.AskErr
	}

	body := ""
	if len(f.Script) > 0 {
		body = strings.Join(f.Script, "\n") + "\n"
	}

	var r io.Reader = strings.NewReader(body)
	if f.FailAfter > 0 {
		failWith := f.FailWith
		if failWith == nil {
			failWith = errors.New("connection reset by peer")
		}
		r = &failingReader{r: io.LimitReader(r, int64(f.FailAfter)), err: failWith}
	}
	if f.ChunkSize > 0 {
		r = &ChunkReader{R: r, Size: f.ChunkSize}
	}

	return io.NopCloser(r), nil
}

// Asked returns the questions submitted so far.
func (f *FakeStreamClient) Asked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.asked))
	copy(out, f.asked)
	return out
}

// ChunkReader serves at most Size bytes per Read call, forcing downstream
// consumers to cope with arbitrary chunk fragmentation.
type ChunkReader struct {
	R    io.Reader
	Size int
}

func (c *ChunkReader) Read(p []byte) (int, error) {
	if len(p) > c.Size {
		p = p[:c.Size]
	}
	return c.R.Read(p)
}

// failingReader yields err once the wrapped reader is exhausted, simulating
// a mid-stream transport abort.
type failingReader struct {
	r   io.Reader
	err error
}

func (f *failingReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		return n, f.err
	}
	return n, err
}
