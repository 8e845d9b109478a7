package discovery

import "strings"

// callAt extracts the full argument text of a call expression whose opening
// parenthesis is at src[open]. It scans with a small string-aware matcher so
// nested parentheses, quotes, and template literals do not cut the argument
// list short. Returns the argument text and the index just past the closing
// parenthesis, or ok=false when the call is unterminated.
func callAt(src string, open int) (args string, end int, ok bool) {
	if open >= len(src) || src[open] != '(' {
		return "", 0, false
	}

	depth := 0
	var quote byte
	for i := open; i < len(src); i++ {
		c := src[i]

		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return src[open+1 : i], i + 1, true
			}
		}
	}
	return "", 0, false
}

// splitArgs splits a call's argument text on top-level commas, respecting
// strings, template literals, and nested brackets.
func splitArgs(args string) []string {
	var out []string
	depth := 0
	var quote byte
	start := 0

	for i := 0; i < len(args); i++ {
		c := args[i]

		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(args[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(args[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}
