package openrouter

import (
	"bufio"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pwellner/go-ai-researcher/internal/util"
)

const (
	ssePrefix  = "data:"
	doneMarker = "[DONE]"

	// streamBufferMax caps a single SSE line. Deltas are tiny but error
	// payloads relayed mid-stream can be large.
	streamBufferMax = 1024 * 1024
)

// ChatStream iterates over the text fragments of a streamed completion.
// The sequence is finite and not restartable. Close releases the
// underlying connection and is safe to call at any point, including
// before exhaustion.
//
// The stream also accumulates everything it has yielded, the model echoed
// by the server, and the terminal usage chunk when the provider sends one,
// so a finished stream carries all the inputs cost accounting needs.
type ChatStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	current string
	model   string
	usage   *Usage
	acc     strings.Builder
	err     error
	done    bool
	closed  bool
}

func newChatStream(body io.ReadCloser) *ChatStream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 4096), streamBufferMax)
	return &ChatStream{
		body:    body,
		scanner: scanner,
	}
}

// Next advances to the next non-empty text fragment, returning false when
// the stream is exhausted, failed, or closed. Usage-bearing chunks without
// text are consumed transparently.
func (s *ChatStream) Next() bool {
	if s.done {
		return false
	}

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, ssePrefix) {
			// Blank separator lines and SSE comments.
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, ssePrefix))
		if data == doneMarker {
			s.finish(nil)
			return false
		}

		var chunk StreamChunk
		if err := sonic.Unmarshal([]byte(data), &chunk); err != nil {
			util.LogDebugf("Skipping undecodable stream chunk: %v", err)
			continue
		}

		if chunk.Model != "" {
			s.model = chunk.Model
		}
		if chunk.Usage != nil {
			u := *chunk.Usage
			s.usage = &u
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		s.current = delta
		s.acc.WriteString(delta)
		return true
	}

	s.finish(s.scanner.Err())
	return false
}

func (s *ChatStream) finish(err error) {
	s.done = true
	if s.err == nil {
		s.err = err
	}
	_ = s.Close()
}

// Text returns the fragment Next advanced to.
func (s *ChatStream) Text() string {
	return s.current
}

// Accumulated returns all fragments yielded so far, concatenated.
func (s *ChatStream) Accumulated() string {
	return s.acc.String()
}

// Model returns the model identifier echoed by the server, or "" if none
// was seen.
func (s *ChatStream) Model() string {
	return s.model
}

// Usage returns the usage reported by the terminal chunk, or nil when the
// provider sent none.
func (s *ChatStream) Usage() *Usage {
	if s.usage == nil {
		return nil
	}
	u := *s.usage
	return &u
}

// Err reports a transport or scan failure. It is nil after a normal
// exhaustion.
func (s *ChatStream) Err() error {
	return s.err
}

// Close releases the underlying connection. Calling it more than once is
// a no-op.
func (s *ChatStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.done = true
	return s.body.Close()
}
