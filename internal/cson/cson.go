// Package cson decodes CSON documents.
//
// Input is rewritten into Hjson and decoded with hjson-go. The rewrite covers
// the CoffeeScript object syntax Hjson lacks:
//   - a key followed by more-indented key lines opens an object that closes
//     when indentation returns to the key's level
//   - the bare words yes, on, no and off are booleans, as a property value
//     or as an array element on its own line
//
// Everything else (braces, brackets, quoted strings, ''' blocks, # and //
// comments, optional commas) is handed to Hjson unchanged. Booleans written
// inline inside braces or brackets, CoffeeScript interpolation and """
// blocks are not supported.
package cson

import (
	"regexp"
	"strings"

	"github.com/hjson/hjson-go/v4"
)

// keyLine matches "key: rest" with an identifier or quoted key.
var keyLine = regexp.MustCompile(`^([A-Za-z_$][\w$-]*|"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*')\s*:\s*(.*)$`)

var booleans = map[string]string{
	"yes": "true",
	"on":  "true",
	"no":  "false",
	"off": "false",
}

// Unmarshal decodes CSON data into v.
func Unmarshal(data []byte, v any) error {
	return hjson.Unmarshal(Rewrite(data), v)
}

// Rewrite converts CSON source into equivalent Hjson source.
func Rewrite(src []byte) []byte {
	lines := strings.Split(string(src), "\n")
	out := make([]string, 0, len(lines))

	var open []int // Indents of implicit objects, innermost last
	closeTo := func(indent int) {
		for len(open) > 0 && indent <= open[len(open)-1] {
			out = append(out, strings.Repeat(" ", open[len(open)-1])+"}")
			open = open[:len(open)-1]
		}
	}

	inBlock := false
	for i, raw := range lines {
		raw = strings.TrimRight(raw, "\r")
		if inBlock {
			out = append(out, raw)
			inBlock = !togglesBlock(raw)
			continue
		}

		content := strings.TrimSpace(raw)
		if isBlank(content) {
			out = append(out, raw)
			continue
		}

		indent := indentOf(raw)
		closeTo(indent)

		if togglesBlock(raw) {
			inBlock = true
			out = append(out, raw)
			continue
		}

		m := keyLine.FindStringSubmatch(content)
		if m == nil {
			if b, ok := booleans[bare(content)]; ok {
				raw = raw[:indent] + b
			}
			out = append(out, raw)
			continue
		}

		value := bare(m[2])
		switch {
		case value == "" && opensObject(lines[i+1:], indent):
			out = append(out, raw[:indent]+m[1]+": {")
			open = append(open, indent)
		case booleans[value] != "":
			out = append(out, raw[:indent]+m[1]+": "+booleans[value])
		default:
			out = append(out, raw)
		}
	}

	// Close what is still open before trailing blank and comment lines.
	end := len(out)
	for end > 0 && isBlank(strings.TrimSpace(out[end-1])) {
		end--
	}
	tail := append([]string(nil), out[end:]...)
	out = out[:end]
	closeTo(0)
	out = append(out, tail...)

	return []byte(strings.Join(out, "\n"))
}

// opensObject reports whether the next significant line is a key line
// indented deeper than indent.
func opensObject(rest []string, indent int) bool {
	for _, raw := range rest {
		content := strings.TrimSpace(raw)
		if isBlank(content) {
			continue
		}
		return indentOf(raw) > indent && keyLine.MatchString(content)
	}
	return false
}

// bare strips a trailing comment and comma from an unquoted value.
func bare(s string) string {
	if strings.HasPrefix(s, `"`) || strings.HasPrefix(s, "'") {
		return s
	}
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), ",")
}

func isBlank(content string) bool {
	return content == "" || strings.HasPrefix(content, "#") || strings.HasPrefix(content, "//")
}

func indentOf(raw string) int {
	return len(raw) - len(strings.TrimLeft(raw, " \t"))
}

func togglesBlock(raw string) bool {
	return strings.Count(raw, "'''")%2 == 1
}
