// Package dispatcher registers text-object commands and routes key
// sequences to them.
//
// Each registration returns a Handle. A Handle is the only way to remove a
// command again, so a caller that registers a batch of commands keeps the
// handles it received and revokes exactly those; unrelated commands that
// happen to share a naming convention are never touched.
//
// # Usage
//
//	d := dispatcher.New(dispatcher.DefaultConfig())
//
//	h, err := d.Register(dispatcher.Command{
//	    ID:      "textobject.inside.$",
//	    Keys:    []string{"i", "$"},
//	    Handler: handler.NewTextObjectHandler(def, textobject.Inside),
//	})
//
//	m, err := d.Dispatch([]string{"i", "$"}, cursor, buf)
//
//	_ = d.Unregister(h)
//
// Handlers run synchronously on the caller's goroutine. With panic recovery
// enabled (the default) a panicking handler yields ErrPanic instead of
// crashing the caller.
package dispatcher
