package encoder

import (
	"strings"
	"sync"
)

// tailBuffer is an io.Writer that keeps only the last maxLines lines
// written to it. FFmpeg is chatty on stderr; error reports only need the
// end of the stream.
type tailBuffer struct {
	mu       sync.Mutex
	lines    []string
	partial  strings.Builder
	maxLines int
}

func newTailBuffer(maxLines int) *tailBuffer {
	return &tailBuffer{maxLines: maxLines}
}

// Write implements io.Writer.
func (b *tailBuffer) Write(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range string(data) {
		if c == '\n' {
			b.appendLine(b.partial.String())
			b.partial.Reset()
			continue
		}
		b.partial.WriteRune(c)
	}
	return len(data), nil
}

// appendLine adds a completed line, evicting the oldest when full.
func (b *tailBuffer) appendLine(line string) {
	if line == "" {
		return
	}
	b.lines = append(b.lines, line)
	if len(b.lines) > b.maxLines {
		b.lines = b.lines[len(b.lines)-b.maxLines:]
	}
}

// Tail returns the retained lines joined with newlines, including any
// trailing partial line.
func (b *tailBuffer) Tail() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := b.lines
	if b.partial.Len() > 0 {
		lines = append(append([]string(nil), lines...), b.partial.String())
	}
	return strings.Join(lines, "\n")
}
