package buffer

import (
	"strings"

	"github.com/rivo/uniseg"
)

// SplitGraphemes returns the grapheme clusters of text in order.
func SplitGraphemes(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// GraphemeCount returns the number of grapheme clusters in text.
// This is the character length used by offset arithmetic.
func GraphemeCount(text string) int {
	return uniseg.GraphemeClusterCount(text)
}

func joinGraphemes(clusters []string) string {
	if len(clusters) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, c := range clusters {
		sb.WriteString(c)
	}
	return sb.String()
}
