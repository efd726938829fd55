// Package scan finds matching delimiters in PHP source text. It is not a
// parser: it only understands the shapes slimgen itself generates.
package scan

import "strings"

// Pair is an opening and closing delimiter, e.g. '{' and '}'.
type Pair struct {
	Open, Close byte
}

var (
	Braces   = Pair{'{', '}'}
	Brackets = Pair{'[', ']'}
	Parens   = Pair{'(', ')'}
)

// IndexOpen returns the index of the first opening delimiter at or after
// from, or -1.
func IndexOpen(src string, from int, p Pair) int {
	if from < 0 || from >= len(src) {
		return -1
	}
	i := strings.IndexByte(src[from:], p.Open)
	if i < 0 {
		return -1
	}
	return from + i
}

// MatchPlain returns the index of the delimiter closing the one at open,
// counting every occurrence including those inside string literals.
func MatchPlain(src string, open int, p Pair) (int, bool) {
	if open < 0 || open >= len(src) || src[open] != p.Open {
		return -1, false
	}
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case p.Open:
			depth++
		case p.Close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return -1, false
}

// MatchQuoted is MatchPlain that skips delimiters inside single- or
// double-quoted literals and comments. A backslash escapes the next byte
// inside a literal.
func MatchQuoted(src string, open int, p Pair) (int, bool) {
	if open < 0 || open >= len(src) || src[open] != p.Open {
		return -1, false
	}
	depth := 0
	var quote byte
	for i := open; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"':
			quote = c
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				i = skipLine(src, i)
			} else if i+1 < len(src) && src[i+1] == '*' {
				end := strings.Index(src[i+2:], "*/")
				if end < 0 {
					return -1, false
				}
				i += end + 3
			}
		case p.Open:
			depth++
		case p.Close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return -1, false
}

func skipLine(src string, i int) int {
	nl := strings.IndexByte(src[i:], '\n')
	if nl < 0 {
		return len(src)
	}
	return i + nl
}

// Body returns the text strictly between the delimiter at open and its match
// using plain counting.
func Body(src string, open int, p Pair) (string, bool) {
	end, ok := MatchPlain(src, open, p)
	if !ok {
		return "", false
	}
	return src[open+1 : end], true
}
