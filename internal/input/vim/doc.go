// Package vim provides the Vim text-object key grammar used to bind and
// invoke user text objects.
//
// A text object is invoked with a prefix key followed by the object keys:
//
//	i<keys>   inner (inside) variant
//	a<keys>   around variant
//
// For a user definition with object keys ["$"], the bound sequences are
// ["i", "$"] and ["a", "$"]. Object keys may be multi-character tokens such
// as "<leader>", so sequences are handled as token slices rather than strings.
package vim
