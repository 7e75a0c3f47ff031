package util

import "strings"

const fence = "```"

// StripCodeFences unwraps a fenced block such as "```json\n{...}\n```".
// Any info string after the opening fence is dropped, as is prose around the block.
// Text without a fence is only trimmed.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	open := strings.Index(s, fence)
	if open < 0 {
		return s
	}
	body := s[open+len(fence):]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && isInfoString(body[:nl]) {
		body = body[nl+1:]
	} else if nl < 0 {
		body = strings.TrimLeftFunc(body, isInfoRune)
	}
	if end := strings.LastIndex(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// isInfoString reports whether the rest of an opening fence line is a language tag
// rather than payload, e.g. "json", "JSON", "json5".
func isInfoString(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if !isInfoRune(r) {
			return false
		}
	}
	return true
}

func isInfoRune(r rune) bool {
	return r == '-' || r == '_' || r == '+' || r == '.' ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
