// Package textobject resolves user-defined delimiter text objects.
//
// A text object is described by a Definition: a literal opening token, a
// literal closing token, and policies for line breaks and delimiter
// inclusion. Given a cursor position, ExecAction finds the nearest opening
// token at or before the cursor and the nearest closing token after it, and
// returns an inclusive range covering either the content between them
// (Inside) or the content plus the tokens (Around).
//
// Tokens are matched literally and case-sensitively. There is no nesting
// depth tracking: "(a(b)c)" with the cursor on "c" selects "b)c" inside
// the nearest "(" before the cursor, exactly as a plain nearest-match search
// would.
//
// # Usage
//
//	def, err := textobject.NewDefinition([]string{"$"}, "$", "$")
//	if err != nil {
//	    return err
//	}
//	m := textobject.ExecAction(cursor, textobject.Inside, def, buf)
//	if m.Failed {
//	    // selection unchanged
//	}
//
// Resolution is a pure function of its inputs. It performs no I/O and
// never mutates the document.
package textobject
