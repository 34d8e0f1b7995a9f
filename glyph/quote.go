package glyph

import "bytes"

// The content stream parser only reads operators that start with a letter,
// so the ' and " operators are renamed before parsing and restored after.
const (
	quoteAlias       = "PdfxmlQuote"
	doubleQuoteAlias = "PdfxmlDoubleQuote"
)

// operatorName maps a parsed operator back to its content stream name.
func operatorName(op string) string {
	switch op {
	case quoteAlias:
		return "'"
	case doubleQuoteAlias:
		return "\""
	}
	return op
}

// renameQuotes replaces every standalone ' and " operator in content with
// an alias the parser accepts. Strings, names, comments and inline image
// data are copied unchanged.
func renameQuotes(content []byte) []byte {
	if !bytes.ContainsAny(content, `'"`) {
		return content
	}

	out := make([]byte, 0, len(content)+32)
	for i := 0; i < len(content); {
		c := content[i]
		switch {
		case c == '%':
			j := i
			for j < len(content) && content[j] != '\n' && content[j] != '\r' {
				j++
			}
			out = append(out, content[i:j]...)
			i = j
		case c == '(':
			j := literalEnd(content, i)
			out = append(out, content[i:j]...)
			i = j
		case c == '<' && i+1 < len(content) && content[i+1] == '<':
			out = append(out, "<<"...)
			i += 2
		case c == '<':
			j := bytes.IndexByte(content[i:], '>')
			end := len(content)
			if j >= 0 {
				end = i + j + 1
			}
			out = append(out, content[i:end]...)
			i = end
		case c == '/':
			j := i + 1
			for j < len(content) && isRegular(content[j]) {
				j++
			}
			out = append(out, content[i:j]...)
			i = j
		case (c == '\'' || c == '"') && (i+1 == len(content) || !isRegular(content[i+1])):
			alias := quoteAlias
			if c == '"' {
				alias = doubleQuoteAlias
			}
			out = append(out, ' ')
			out = append(out, alias...)
			out = append(out, ' ')
			i++
		case isRegular(c):
			j := i
			for j < len(content) && isRegular(content[j]) {
				j++
			}
			out = append(out, content[i:j]...)
			if string(content[i:j]) == "ID" {
				end := inlineImageEnd(content, j)
				out = append(out, content[j:end]...)
				j = end
			}
			i = j
		default:
			out = append(out, c)
			i++
		}
	}
	return out
}

// literalEnd returns the index just past the literal string starting at
// content[start], honouring nested parentheses and escapes.
func literalEnd(content []byte, start int) int {
	depth := 0
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(content)
}

// inlineImageEnd returns the index of the EI operator closing the inline
// image data that starts at content[start].
func inlineImageEnd(content []byte, start int) int {
	for i := start; i+1 < len(content); i++ {
		if content[i] != 'E' || content[i+1] != 'I' {
			continue
		}
		if i > start && isSpace(content[i-1]) && (i+2 == len(content) || !isRegular(content[i+2])) {
			return i
		}
	}
	return len(content)
}

func isSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool {
	return !isSpace(c) && !isDelimiter(c)
}
