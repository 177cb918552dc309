package knowledge

import "strings"

// SplitText cuts content into chunks of roughly size characters with the
// given overlap. Break points prefer paragraph boundaries, then sentence
// ends, then whitespace; a hard cut is the last resort.
func SplitText(content string, size, overlap int) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	if len(content) <= size {
		return []string{content}
	}

	chunks := []string{}
	start := 0
	for start < len(content) {
		end := start + size
		if end >= len(content) {
			chunks = append(chunks, strings.TrimSpace(content[start:]))
			break
		}

		cut := findBreak(content, start, end)
		chunk := strings.TrimSpace(content[start:cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return chunks
}

// findBreak picks the best boundary in (start, end], searching the back half
// of the window so chunks do not degenerate.
func findBreak(content string, start, end int) int {
	window := content[start:end]
	floor := len(window) / 2

	if idx := strings.LastIndex(window, "\n\n"); idx > floor {
		return start + idx
	}
	for _, sep := range []string{". ", "!\n", "?\n", ".\n", "\n"} {
		if idx := strings.LastIndex(window, sep); idx > floor {
			return start + idx + len(sep)
		}
	}
	if idx := strings.LastIndexByte(window, ' '); idx > floor {
		return start + idx
	}
	return end
}
