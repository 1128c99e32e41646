package jsparse

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// unescape decodes a single JavaScript string escape sequence. Unknown
// escapes decode to the escaped character itself.
func unescape(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}
	body := seq[1:]
	switch body[0] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		if len(body) == 1 {
			return "\x00"
		}
	case '\n', '\r':
		// line continuation
		return ""
	case 'x':
		if r, ok := parseHexRune(body[1:]); ok {
			return string(r)
		}
	case 'u':
		hex := strings.TrimSuffix(strings.TrimPrefix(body[1:], "{"), "}")
		if r, ok := parseHexRune(hex); ok {
			return string(r)
		}
	}
	r, _ := utf8.DecodeRuneInString(body)
	return string(r)
}

func parseHexRune(hex string) (rune, bool) {
	if hex == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || n > utf8.MaxRune {
		return 0, false
	}
	return rune(n), true
}

// surrogatePair decodes two \uXXXX escapes holding a UTF-16 surrogate pair.
func surrogatePair(high, low string) (rune, bool) {
	hi, ok := codeUnit(high)
	if !ok {
		return 0, false
	}
	lo, ok := codeUnit(low)
	if !ok {
		return 0, false
	}
	r := utf16.DecodeRune(hi, lo)
	return r, r != utf8.RuneError
}

func codeUnit(seq string) (rune, bool) {
	if len(seq) != 6 || seq[:2] != `\u` {
		return 0, false
	}
	return parseHexRune(seq[2:])
}
