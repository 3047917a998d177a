package markdown

import (
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// ExtractFences scans a Markdown body for fenced code blocks without building
// an AST. Three or more backticks or tildes open a block, a run of the same
// character at least as long closes it, and backtick info strings may not
// contain backticks. An unclosed fence runs to the end of the input.
func ExtractFences(body []byte) []interfaces.CodeFence {
	lines := splitLines(body)

	var fences []interfaces.CodeFence
	var open *fenceOpening
	var content []string

	for idx, line := range lines {
		if open == nil {
			if opening, ok := parseFenceOpening(line); ok {
				opening.line = idx + 1
				open = &opening
				content = content[:0]
			}
			continue
		}

		if closesFence(line, *open) {
			fences = append(fences, buildFence(*open, content))
			open = nil
			continue
		}

		content = append(content, stripIndent(line, open.indent))
	}

	if open != nil {
		fences = append(fences, buildFence(*open, content))
	}

	return fences
}

type fenceOpening struct {
	char   byte
	length int
	indent int
	info   string
	line   int
}

// parseFenceOpening reports whether line opens a fenced code block. Openers
// allow up to three spaces of indentation and need a run of at least three
// identical fence characters.
func parseFenceOpening(line string) (fenceOpening, bool) {
	indent := leadingSpaces(line)
	if indent > 3 || indent == len(line) {
		return fenceOpening{}, false
	}

	char := line[indent]
	if char != '`' && char != '~' {
		return fenceOpening{}, false
	}

	pos := indent
	for pos < len(line) && line[pos] == char {
		pos++
	}
	length := pos - indent
	if length < 3 {
		return fenceOpening{}, false
	}

	info := strings.TrimSpace(line[pos:])
	if char == '`' && strings.ContainsRune(info, '`') {
		return fenceOpening{}, false
	}

	return fenceOpening{char: char, length: length, indent: indent, info: info}, true
}

// closesFence reports whether line terminates the open fence: same character,
// a run at least as long as the opener, and nothing but whitespace after.
func closesFence(line string, open fenceOpening) bool {
	indent := leadingSpaces(line)
	if indent > 3 {
		return false
	}

	pos := indent
	for pos < len(line) && line[pos] == open.char {
		pos++
	}
	if pos-indent < open.length {
		return false
	}

	return strings.TrimSpace(line[pos:]) == ""
}

func buildFence(open fenceOpening, content []string) interfaces.CodeFence {
	body := ""
	if len(content) > 0 {
		body = strings.Join(content, "\n") + "\n"
	}

	return interfaces.CodeFence{
		Language: fenceLanguage(open.info),
		Info:     open.info,
		Body:     body,
		Line:     open.line,
	}
}

// fenceLanguage returns the first word of the info string.
func fenceLanguage(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// stripIndent removes up to indent leading spaces, mirroring how the
// renderer dedents fence content against the opener's indentation.
func stripIndent(line string, indent int) string {
	for i := 0; i < indent; i++ {
		if len(line) == 0 || line[0] != ' ' {
			break
		}
		line = line[1:]
	}
	return line
}

func leadingSpaces(line string) int {
	count := 0
	for count < len(line) && line[count] == ' ' {
		count++
	}
	return count
}

func splitLines(body []byte) []string {
	normalized := strings.ReplaceAll(string(body), "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	// A trailing newline is a terminator, not an extra empty line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
