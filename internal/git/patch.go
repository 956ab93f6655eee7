package git

import (
	"fmt"
	"strings"

	"hunky/internal/diff"
)

// HunkPatch renders a whole hunk as a self-contained unified patch.
// Counts are recomputed from the lines rather than trusted from the
// parsed header.
func HunkPatch(path string, hunk *diff.Hunk) string {
	var b strings.Builder
	writePatchHeader(&b, path)

	oldCount, newCount := lineCounts(hunk.Lines)
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, oldCount, hunk.NewStart, newCount)
	writePatchLines(&b, hunk.Lines)
	return b.String()
}

// LinePatch renders a minimal patch containing exactly one change line
// plus up to three surrounding context lines on each side. Context
// collection stops at the nearest change line, so neighbouring changes
// are never dragged into the patch. The mini-hunk header carries exact
// start positions computed by walking the hunk prefix.
func LinePatch(path string, hunk *diff.Hunk, lineIndex int) (string, error) {
	if lineIndex < 0 || lineIndex >= len(hunk.Lines) {
		return "", fmt.Errorf("%w: %d of %d", ErrLineIndexOutOfBounds, lineIndex, len(hunk.Lines))
	}
	selected := hunk.Lines[lineIndex]
	if !selected.IsChange() {
		return "", ErrUnsupportedLineKind
	}

	var before []diff.Line
	for i := lineIndex - 1; i >= 0 && len(before) < 3; i-- {
		line := hunk.Lines[i]
		if line.Kind != diff.LineContext {
			break
		}
		before = append([]diff.Line{line}, before...)
	}

	var after []diff.Line
	for i := lineIndex + 1; i < len(hunk.Lines) && len(after) < 3; i++ {
		line := hunk.Lines[i]
		if line.Kind != diff.LineContext {
			break
		}
		after = append(after, line)
	}

	// Exact start positions for the first included line: every earlier
	// context line advances both sides, removals advance only the old
	// side, additions only the new side.
	startIdx := lineIndex - len(before)
	oldStart := hunk.OldStart
	newStart := hunk.NewStart
	for _, line := range hunk.Lines[:startIdx] {
		switch line.Kind {
		case diff.LineContext:
			oldStart++
			newStart++
		case diff.LineRemoved:
			oldStart++
		case diff.LineAdded:
			newStart++
		}
	}

	lines := make([]diff.Line, 0, len(before)+1+len(after))
	lines = append(lines, before...)
	lines = append(lines, selected)
	lines = append(lines, after...)

	oldCount, newCount := lineCounts(lines)

	var b strings.Builder
	writePatchHeader(&b, path)
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
	writePatchLines(&b, lines)
	return b.String(), nil
}

func writePatchHeader(b *strings.Builder, path string) {
	fmt.Fprintf(b, "diff --git a/%s b/%s\n", path, path)
	fmt.Fprintf(b, "--- a/%s\n", path)
	fmt.Fprintf(b, "+++ b/%s\n", path)
}

func writePatchLines(b *strings.Builder, lines []diff.Line) {
	for _, line := range lines {
		b.WriteByte(byte(line.Kind))
		b.WriteString(line.Content)
		if !strings.HasSuffix(line.Content, "\n") {
			b.WriteByte('\n')
		}
	}
}

func lineCounts(lines []diff.Line) (oldCount, newCount int) {
	for _, line := range lines {
		switch line.Kind {
		case diff.LineContext:
			oldCount++
			newCount++
		case diff.LineRemoved:
			oldCount++
		case diff.LineAdded:
			newCount++
		}
	}
	return oldCount, newCount
}
