package vim

import (
	"strings"
	"unicode/utf8"
)

// TextObjectPrefix represents the prefix for text object selection.
type TextObjectPrefix uint8

const (
	// PrefixNone indicates no text object prefix.
	PrefixNone TextObjectPrefix = iota

	// PrefixInner indicates "inner" selection (i).
	PrefixInner

	// PrefixAround indicates "around" selection (a).
	PrefixAround
)

// String returns a string representation of the prefix.
func (p TextObjectPrefix) String() string {
	switch p {
	case PrefixInner:
		return "inner"
	case PrefixAround:
		return "around"
	default:
		return "none"
	}
}

// Key returns the key that selects the prefix, or "" for PrefixNone.
func (p TextObjectPrefix) Key() string {
	switch p {
	case PrefixInner:
		return "i"
	case PrefixAround:
		return "a"
	default:
		return ""
	}
}

// IsTextObjectPrefix returns true if the key is "i" or "a".
func IsTextObjectPrefix(key string) bool {
	return key == "i" || key == "a"
}

// GetTextObjectPrefix returns the prefix type for the key.
func GetTextObjectPrefix(key string) TextObjectPrefix {
	switch key {
	case "i":
		return PrefixInner
	case "a":
		return PrefixAround
	default:
		return PrefixNone
	}
}

// TextObjectKeys returns the full key sequence for a prefix and object keys.
func TextObjectKeys(prefix TextObjectPrefix, objectKeys []string) []string {
	keys := make([]string, 0, len(objectKeys)+1)
	keys = append(keys, prefix.Key())
	return append(keys, objectKeys...)
}

// SplitTextObjectKeys splits a sequence into its prefix and object keys.
// ok is false when the sequence has no prefix or no object keys.
func SplitTextObjectKeys(keys []string) (prefix TextObjectPrefix, objectKeys []string, ok bool) {
	if len(keys) < 2 {
		return PrefixNone, nil, false
	}
	prefix = GetTextObjectPrefix(keys[0])
	if prefix == PrefixNone {
		return PrefixNone, nil, false
	}
	return prefix, keys[1:], true
}

// ParseKeys parses a typed key sequence into tokens. Whitespace separates
// tokens when present ("i <leader> x"); otherwise every character is one
// token ("i$"). A <...> group is always one token, so "i<leader>x" parses
// to ["i", "<leader>", "x"].
func ParseKeys(s string) []string {
	if fields := strings.Fields(s); len(fields) > 1 {
		return fields
	}
	s = strings.TrimSpace(s)

	var keys []string
	for len(s) > 0 {
		if s[0] == '<' {
			if end := strings.IndexByte(s, '>'); end > 1 {
				keys = append(keys, s[:end+1])
				s = s[end+1:]
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(s)
		keys = append(keys, s[:size])
		s = s[size:]
	}
	return keys
}

// FormatKeys renders a key sequence the way ParseKeys reads it back.
func FormatKeys(keys []string) string {
	for _, k := range keys {
		if utf8.RuneCountInString(k) > 1 && !(strings.HasPrefix(k, "<") && strings.HasSuffix(k, ">")) {
			return strings.Join(keys, " ")
		}
	}
	return strings.Join(keys, "")
}
