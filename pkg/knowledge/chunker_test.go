package knowledge

import (
	"strings"
	"testing"
)

func TestSplitText_ShortContentSingleChunk(t *testing.T) {
	chunks := SplitText("a short document", 1000, 200)
	if len(chunks) != 1 || chunks[0] != "a short document" {
		t.Errorf("chunks = %v, want single chunk", chunks)
	}
}

func TestSplitText_EmptyContent(t *testing.T) {
	if chunks := SplitText("   \n  ", 1000, 200); chunks != nil {
		t.Errorf("chunks = %v, want nil for blank content", chunks)
	}
}

func TestSplitText_LongContentProducesMultipleBoundedChunks(t *testing.T) {
	paragraph := strings.Repeat("Sleep hygiene matters. Keep a consistent schedule. ", 10)
	content := strings.Join([]string{paragraph, paragraph, paragraph, paragraph}, "\n\n")

	chunks := SplitText(content, 500, 100)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for %d chars, got %d", len(content), len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 500 {
			t.Errorf("chunk %d has %d chars, want <= 500", i, len(chunk))
		}
		if strings.TrimSpace(chunk) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

func TestSplitText_CoversWholeDocument(t *testing.T) {
	content := strings.Repeat("anxiety management techniques help many people. ", 40)
	chunks := SplitText(content, 400, 80)

	// The final sentence must land in some chunk; overlap may duplicate
	// text but nothing may be dropped.
	last := "people."
	found := false
	for _, chunk := range chunks {
		if strings.Contains(chunk, last) {
			found = true
		}
	}
	if !found {
		t.Error("tail of the document missing from every chunk")
	}
}

func TestSplitText_DegenerateParamsFallBackToDefaults(t *testing.T) {
	content := strings.Repeat("word ", 500)
	chunks := SplitText(content, 0, -1)
	if len(chunks) == 0 {
		t.Fatal("expected chunks even with degenerate parameters")
	}
}
