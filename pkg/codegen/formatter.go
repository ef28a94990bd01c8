package codegen

import (
	"regexp"
	"strings"
)

// indentUnit is the four-space indentation step used in generated scripts
const indentUnit = "    "

// controlHeaderPattern matches a for/while/if header whose un-braced body
// sits on the following line
var controlHeaderPattern = regexp.MustCompile(`^(for|while|if)\b.*\(.*\)$`)

// Formatter collects generated source lines and renders them with
// bracket-driven indentation. Lines are stored trimmed; Format infers the
// depth of every line from the shape of the lines before it, so callers
// never pass indentation through the emitters.
type Formatter struct {
	lines      []string
	baseOffset string
}

// NewFormatter creates a formatter whose whole output is shifted right by
// offset spaces, letting separately rendered blocks compose at their
// nesting depth
func NewFormatter(offset int) *Formatter {
	return &Formatter{baseOffset: strings.Repeat(" ", offset)}
}

// Add appends text to the buffer, one trimmed line per input line
func (f *Formatter) Add(text string) {
	f.lines = append(f.lines, splitTrimmed(text)...)
}

// Prepend inserts text in front of everything added so far
func (f *Formatter) Prepend(text string) {
	f.lines = append(splitTrimmed(text), f.lines...)
}

// NewLine appends one blank separator line
func (f *Formatter) NewLine() {
	f.lines = append(f.lines, "")
}

func splitTrimmed(text string) []string {
	parts := strings.Split(strings.TrimSpace(text), "\n")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// Format renders the buffered lines. A line that opens with a closing
// delimiter (or closes a call it did not open) dedents before it renders;
// a line ending with an opening delimiter indents everything after it; a
// braceless for/while/if header indents exactly the next line. Blank lines
// pass through untouched and the depth never drops below zero.
func (f *Formatter) Format() string {
	out := make([]string, 0, len(f.lines))
	depth := 0
	previous := ""

	for _, line := range f.lines {
		if line == "" {
			out = append(out, line)
			continue
		}

		if strings.HasPrefix(line, "}") || strings.HasPrefix(line, "]") ||
			strings.Contains(line, "});") || line == ");" {
			if depth > 0 {
				depth--
			}
		}

		indent := strings.Repeat(indentUnit, depth)
		if controlHeaderPattern.MatchString(previous) {
			indent += indentUnit
		}
		out = append(out, f.baseOffset+indent+line)
		previous = line

		if strings.HasSuffix(line, "{") || strings.HasSuffix(line, "[") ||
			strings.HasSuffix(line, "(") {
			depth++
		}
	}

	return strings.Join(out, "\n")
}
