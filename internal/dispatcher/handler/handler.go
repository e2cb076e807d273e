// Package handler provides the handler interface for text-object commands.
package handler

import (
	"github.com/dshills/textobjects/internal/engine/buffer"
	"github.com/dshills/textobjects/internal/textobject"
)

// Handler resolves a command at a cursor position in a document.
type Handler interface {
	// Handle computes the movement for the command.
	Handle(pos buffer.Point, doc textobject.Document) textobject.Movement
}

// HandlerFunc is a function adapter for Handler interface.
// It allows using a simple function as a Handler.
type HandlerFunc struct {
	fn func(pos buffer.Point, doc textobject.Document) textobject.Movement
}

// NewHandlerFunc creates a HandlerFunc from a function.
func NewHandlerFunc(fn func(pos buffer.Point, doc textobject.Document) textobject.Movement) *HandlerFunc {
	return &HandlerFunc{fn: fn}
}

// Handle implements Handler.Handle. A nil function yields a failed movement.
func (f *HandlerFunc) Handle(pos buffer.Point, doc textobject.Document) textobject.Movement {
	if f.fn == nil {
		return textobject.FailedMovement
	}
	return f.fn(pos, doc)
}

// TextObjectHandler resolves one variant of a text object definition.
type TextObjectHandler struct {
	Definition *textobject.Definition
	Mode       textobject.Mode
}

// NewTextObjectHandler binds a definition to a mode.
func NewTextObjectHandler(def *textobject.Definition, mode textobject.Mode) *TextObjectHandler {
	return &TextObjectHandler{Definition: def, Mode: mode}
}

// Handle implements Handler.Handle.
func (h *TextObjectHandler) Handle(pos buffer.Point, doc textobject.Document) textobject.Movement {
	if h.Definition == nil {
		return textobject.FailedMovement
	}
	return textobject.ExecAction(pos, h.Mode, h.Definition, doc)
}
