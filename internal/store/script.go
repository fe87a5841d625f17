package store

import "strings"

// Script renders statements as a script, one statement per line group.
func Script(stmts []string) []byte {
	var sb strings.Builder
	for _, s := range stmts {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// SplitScript splits an SQL script into statements. Semicolons inside
// quoted strings, quoted identifiers and comments do not end a statement,
// and neither do the semicolons of a CREATE TRIGGER body before its END.
// Returned statements keep their terminating semicolon; statements with no
// content besides comments are dropped.
func SplitScript(script string) []string {
	var (
		out        []string
		start      int
		words      []string
		lastWord   string
		inTrigger  bool
		hasContent bool
	)

	reset := func(next int) {
		start = next
		words = words[:0]
		lastWord = ""
		inTrigger = false
		hasContent = false
	}

	n := len(script)
	for i := 0; i < n; {
		c := script[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(script, i, c)
			lastWord = ""
			hasContent = true
		case c == '[':
			if j := strings.IndexByte(script[i:], ']'); j >= 0 {
				i += j + 1
			} else {
				i = n
			}
			lastWord = ""
			hasContent = true
		case c == '-' && i+1 < n && script[i+1] == '-':
			if j := strings.IndexByte(script[i:], '\n'); j >= 0 {
				i += j + 1
			} else {
				i = n
			}
		case c == '/' && i+1 < n && script[i+1] == '*':
			if j := strings.Index(script[i+2:], "*/"); j >= 0 {
				i += j + 4
			} else {
				i = n
			}
		case isWordByte(c):
			j := i
			for j < n && isWordByte(script[j]) {
				j++
			}
			w := strings.ToUpper(script[i:j])
			if len(words) < 3 {
				words = append(words, w)
				inTrigger = isTriggerStart(words)
			}
			lastWord = w
			hasContent = true
			i = j
		case c == ';':
			if inTrigger && lastWord != "END" {
				// statement inside the trigger body
				lastWord = ""
				i++
				continue
			}
			if hasContent {
				out = append(out, strings.TrimSpace(script[start:i+1]))
			}
			i++
			reset(i)
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		default:
			lastWord = ""
			hasContent = true
			i++
		}
	}

	if hasContent {
		out = append(out, strings.TrimSpace(script[start:]))
	}
	return out
}

// skipQuoted returns the index just past the quote that closes the one at
// i. A doubled quote character is an escape.
func skipQuoted(s string, i int, q byte) int {
	for j := i + 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c >= 0x80
}

func isTriggerStart(words []string) bool {
	if len(words) < 2 || words[0] != "CREATE" {
		return false
	}
	if words[1] == "TRIGGER" {
		return true
	}
	return len(words) > 2 && (words[1] == "TEMP" || words[1] == "TEMPORARY") && words[2] == "TRIGGER"
}
