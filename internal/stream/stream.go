package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
)

// ErrInvalidMaxLines is returned by Start when the line bound is not positive.
var ErrInvalidMaxLines = errors.New("max lines must be positive")

const readChunkSize = 32 * 1024

// Handle controls a running tail session.
type Handle struct {
	cancel func()
	done   chan struct{}
}

// Cancel stops the session. No callback fires after Cancel returns; a blocked
// read is unblocked by closing the source. Cancel is idempotent.
func (h *Handle) Cancel() {
	h.cancel()
}

// Done is closed once the read loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// session holds all state for one tail. It is owned exclusively by the read
// loop; callers interact only through the Handle.
type session struct {
	src     io.ReadCloser
	window  *lineWindow
	pending []byte
	onLines func([]string)
	onErr   func(error)
	active  atomic.Bool
}

// Start consumes src incrementally, splitting decoded bytes into lines and
// retaining at most maxLines of them. onLines receives a copy of the full
// current window whenever at least one new line completes; onErr fires at
// most once, when the stream can no longer be read, and ends the session.
// Start fails synchronously with ErrInvalidMaxLines when maxLines <= 0.
func Start(src io.ReadCloser, maxLines int, onLines func([]string), onErr func(error)) (*Handle, error) {
	if maxLines <= 0 {
		return nil, fmt.Errorf("start tail: %w", ErrInvalidMaxLines)
	}
	if src == nil {
		return nil, fmt.Errorf("start tail: source is nil")
	}

	s := &session{
		src:     src,
		window:  newLineWindow(maxLines),
		onLines: onLines,
		onErr:   onErr,
	}
	s.active.Store(true)

	h := &Handle{
		done: make(chan struct{}),
		cancel: func() {
			if s.active.CompareAndSwap(true, false) {
				_ = src.Close()
			}
		},
	}

	go func() {
		defer close(h.done)
		s.run()
	}()
	return h, nil
}

func (s *session) run() {
	buf := make([]byte, readChunkSize)
	for {
		n, err := s.src.Read(buf)
		if !s.active.Load() {
			return
		}
		if n > 0 {
			if !s.consume(buf[:n]) {
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.finish()
			} else {
				s.fail(fmt.Errorf("read stream: %w", err))
			}
			_ = s.src.Close()
			return
		}
	}
}

// consume appends a chunk to the pending partial and moves any completed
// lines into the window. The pending tail stays as raw bytes so a multi-byte
// rune split across chunks decodes intact once the rest arrives. Returns
// false when the session was cancelled meanwhile.
func (s *session) consume(chunk []byte) bool {
	s.pending = append(s.pending, chunk...)
	if bytes.IndexByte(s.pending, '\n') < 0 {
		return true
	}

	var completed []string
	for {
		i := bytes.IndexByte(s.pending, '\n')
		if i < 0 {
			break
		}
		completed = append(completed, string(s.pending[:i]))
		s.pending = s.pending[i+1:]
	}
	// Re-home the remainder so evicted line bytes are not pinned.
	s.pending = append([]byte(nil), s.pending...)

	if !s.active.Load() {
		return false
	}
	s.window.Append(completed...)
	s.onLines(s.window.Snapshot())
	return true
}

// finish flushes a non-terminated trailing partial as one final line. A
// stream that ended on a newline produces no spurious empty line.
func (s *session) finish() {
	if !s.active.CompareAndSwap(true, false) {
		return
	}
	if len(s.pending) == 0 {
		return
	}
	s.window.Append(string(s.pending))
	s.pending = nil
	s.onLines(s.window.Snapshot())
}

func (s *session) fail(err error) {
	if s.active.CompareAndSwap(true, false) {
		s.onErr(err)
	}
}
