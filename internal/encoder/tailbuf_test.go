package encoder

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestTailBufferKeepsLastLines(t *testing.T) {
	b := newTailBuffer(3)
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(b, "line %d\n", i)
	}

	tail := b.Tail()
	if strings.Contains(tail, "line 1") || strings.Contains(tail, "line 2") {
		t.Errorf("old lines should be evicted: %q", tail)
	}
	for i := 3; i <= 5; i++ {
		if !strings.Contains(tail, fmt.Sprintf("line %d", i)) {
			t.Errorf("tail missing line %d: %q", i, tail)
		}
	}
}

func TestTailBufferPartialLine(t *testing.T) {
	b := newTailBuffer(10)
	io.WriteString(b, "complete\nincomp")

	tail := b.Tail()
	if !strings.Contains(tail, "complete") || !strings.Contains(tail, "incomp") {
		t.Errorf("tail should include the partial line: %q", tail)
	}

	// Completing the line later must not duplicate it
	io.WriteString(b, "lete\n")
	tail = b.Tail()
	if strings.Count(tail, "incomplete") != 1 {
		t.Errorf("completed line appears wrong number of times: %q", tail)
	}
}

func TestTailBufferSplitWrites(t *testing.T) {
	b := newTailBuffer(10)
	io.WriteString(b, "ab")
	io.WriteString(b, "cd\nef")

	if got := b.Tail(); got != "abcd\nef" {
		t.Errorf("Tail = %q, want %q", got, "abcd\nef")
	}
}
