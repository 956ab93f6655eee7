package diff

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// maxLineLen bounds a single diff line; generated files can carry very
// long lines.
const maxLineLen = 1024 * 1024

// ParseHunks walks unified diff text for a single path and accumulates
// hunks in one forward pass: a local in-progress hunk is built up and
// emitted whenever a new @@ boundary or the end of input is reached.
//
// File headers (diff/---/+++) are skipped; "\ No newline at end of
// file" markers are dropped and every line is kept newline-terminated.
func ParseHunks(path, text string) []Hunk {
	var (
		hunks    []Hunk
		lines    []Line
		oldStart int
		newStart int
		inHunk   bool
	)

	flush := func() {
		if inHunk && len(lines) > 0 {
			hunks = append(hunks, NewHunk(path, oldStart, newStart, lines))
			lines = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), maxLineLen)

	for scanner.Scan() {
		raw := scanner.Text()

		if m := hunkHeaderRe.FindStringSubmatch(raw); m != nil {
			flush()
			oldStart, _ = strconv.Atoi(m[1])
			newStart, _ = strconv.Atoi(m[2])
			inHunk = true
			continue
		}

		if !inHunk || len(raw) == 0 {
			continue
		}

		switch raw[0] {
		case byte(LineContext), byte(LineAdded), byte(LineRemoved):
			lines = append(lines, Line{
				Kind:    LineKind(raw[0]),
				Content: raw[1:] + "\n",
			})
		default:
			// File headers, "\ No newline" markers and anything
			// else between hunks.
		}
	}

	flush()
	return hunks
}
