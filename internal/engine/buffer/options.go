package buffer

import (
	"path/filepath"
	"strings"
)

// PlainText is the language identifier of buffers with no known type.
const PlainText = "plaintext"

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending used when the buffer's text is
// written back out. Content is always stored with "\n".
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithLanguageID sets the buffer's language identifier.
func WithLanguageID(id string) Option {
	return func(b *Buffer) {
		if id != "" {
			b.languageID = id
		}
	}
}

// WithLanguageFromPath sets the language identifier from a file name.
func WithLanguageFromPath(path string) Option {
	return WithLanguageID(LanguageIDForPath(path))
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			crlfCount++
			i += 2
		} else if text[i] == '\r' {
			crCount++
			i++
		} else if text[i] == '\n' {
			lfCount++
			i++
		} else {
			i++
		}
	}

	if crlfCount >= lfCount && crlfCount >= crCount && crlfCount > 0 {
		return LineEndingCRLF
	}
	if crCount >= lfCount && crCount >= crlfCount && crCount > 0 {
		return LineEndingCR
	}
	return LineEndingLF
}

// WithDetectedLineEnding sets the buffer's line ending style based on content.
func WithDetectedLineEnding(text string) Option {
	return WithLineEnding(DetectLineEnding(text))
}

// languageByExt maps file extensions to language identifiers.
var languageByExt = map[string]string{
	".c":        "c",
	".cc":       "cpp",
	".cpp":      "cpp",
	".cs":       "csharp",
	".css":      "css",
	".go":       "go",
	".h":        "c",
	".hpp":      "cpp",
	".html":     "html",
	".java":     "java",
	".js":       "javascript",
	".json":     "json",
	".jsx":      "javascriptreact",
	".lua":      "lua",
	".md":       "markdown",
	".php":      "php",
	".py":       "python",
	".rb":       "ruby",
	".rs":       "rust",
	".sh":       "shellscript",
	".sql":      "sql",
	".tex":      "latex",
	".toml":     "toml",
	".ts":       "typescript",
	".tsx":      "typescriptreact",
	".txt":      PlainText,
	".xml":      "xml",
	".yaml":     "yaml",
	".yml":      "yaml",
	".markdown": "markdown",
}

// LanguageIDForPath returns the language identifier for a file name,
// or PlainText when the extension is unknown.
func LanguageIDForPath(path string) string {
	if id, ok := languageByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return id
	}
	return PlainText
}
