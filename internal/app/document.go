package app

import (
	"os"

	"github.com/dshills/textobjects/internal/engine/buffer"
)

// OpenDocument reads a file into a buffer. The language identifier is
// languageID when set, otherwise detected from the file name.
func OpenDocument(path, languageID string) (*buffer.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}

	text := string(data)
	opts := []buffer.Option{
		buffer.WithDetectedLineEnding(text),
		buffer.WithLanguageFromPath(path),
	}
	if languageID != "" {
		opts = append(opts, buffer.WithLanguageID(languageID))
	}
	return buffer.NewBufferFromString(text, opts...), nil
}
