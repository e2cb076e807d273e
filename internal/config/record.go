package config

import (
	"fmt"
	"sort"

	"github.com/dshills/textobjects/internal/textobject"
)

// Record field names.
const (
	FieldObjectKeys             = "objectKeys"
	FieldOpen                   = "open"
	FieldClose                  = "close"
	FieldPossiblyMultiline      = "possiblyMultiline"
	FieldSupportsInside         = "supportsInside"
	FieldSupportsAround         = "supportsAround"
	FieldIncludeOpenWhenAround  = "includeOpenWhenAround"
	FieldIncludeCloseWhenAround = "includeCloseWhenAround"
	FieldLanguageIDs            = "languageIds"
)

var knownFields = map[string]bool{
	FieldObjectKeys:             true,
	FieldOpen:                   true,
	FieldClose:                  true,
	FieldPossiblyMultiline:      true,
	FieldSupportsInside:         true,
	FieldSupportsAround:         true,
	FieldIncludeOpenWhenAround:  true,
	FieldIncludeCloseWhenAround: true,
	FieldLanguageIDs:            true,
}

// languageWildcards are the string values of languageIds meaning every language.
var languageWildcards = map[string]bool{
	textobject.Wildcard: true,
	"all":               true,
}

// Record is one raw text object entry as read from a config file.
// A nil Record stands for an entry that was not an object.
type Record map[string]any

// Keys returns the record's object keys, or nil when they are unreadable.
// It never fails, so it can label records that do not decode.
func (r Record) Keys() []string {
	keys, err := stringList(r[FieldObjectKeys])
	if err != nil {
		return nil
	}
	return keys
}

// Definition decodes and validates the record. Missing optional fields
// take the textobject defaults.
func (r Record) Definition() (*textobject.Definition, error) {
	keys := r.Keys()
	if r == nil {
		return nil, &RecordError{Err: ErrNotObject}
	}

	fail := func(field string, err error) (*textobject.Definition, error) {
		return nil, &RecordError{Keys: keys, Field: field, Err: err}
	}

	fields := make([]string, 0, len(r))
	for f := range r {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if !knownFields[f] {
			return fail(f, ErrUnknownField)
		}
	}

	for _, f := range []string{FieldObjectKeys, FieldOpen, FieldClose} {
		if _, ok := r[f]; !ok {
			return fail(f, ErrMissingField)
		}
	}
	if _, err := stringList(r[FieldObjectKeys]); err != nil {
		return fail(FieldObjectKeys, err)
	}
	open, ok := r[FieldOpen].(string)
	if !ok {
		return fail(FieldOpen, typeError("string", r[FieldOpen]))
	}
	closeTok, ok := r[FieldClose].(string)
	if !ok {
		return fail(FieldClose, typeError("string", r[FieldClose]))
	}

	var opts []textobject.DefinitionOption
	bools := []struct {
		field string
		opt   func(bool) textobject.DefinitionOption
	}{
		{FieldPossiblyMultiline, textobject.WithMultiline},
		{FieldSupportsInside, textobject.WithInside},
		{FieldSupportsAround, textobject.WithAround},
		{FieldIncludeOpenWhenAround, textobject.WithIncludeOpen},
		{FieldIncludeCloseWhenAround, textobject.WithIncludeClose},
	}
	for _, b := range bools {
		v, present := r[b.field]
		if !present {
			continue
		}
		flag, ok := v.(bool)
		if !ok {
			return fail(b.field, typeError("bool", v))
		}
		opts = append(opts, b.opt(flag))
	}

	if v, present := r[FieldLanguageIDs]; present {
		set, err := languageSet(v)
		if err != nil {
			return fail(FieldLanguageIDs, err)
		}
		opts = append(opts, textobject.WithLanguages(set))
	}

	return textobject.NewDefinition(keys, open, closeTok, opts...)
}

// FromDefinition returns the record that decodes to def, with every
// field written out.
func FromDefinition(def *textobject.Definition) Record {
	keys := make([]any, len(def.Keys))
	for i, k := range def.Keys {
		keys[i] = k
	}

	var langs any = textobject.Wildcard
	if !def.LanguageIDs.IsWildcard() {
		ids := def.LanguageIDs.IDs()
		list := make([]any, len(ids))
		for i, id := range ids {
			list[i] = id
		}
		langs = list
	}

	return Record{
		FieldObjectKeys:             keys,
		FieldOpen:                   def.Open,
		FieldClose:                  def.Close,
		FieldPossiblyMultiline:      def.PossiblyMultiline,
		FieldSupportsInside:         def.SupportsInside,
		FieldSupportsAround:         def.SupportsAround,
		FieldIncludeOpenWhenAround:  def.IncludeOpenWhenAround,
		FieldIncludeCloseWhenAround: def.IncludeCloseWhenAround,
		FieldLanguageIDs:            langs,
	}
}

// stringList accepts a list whose elements are all strings.
func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), nil
	case []any:
		out := make([]string, len(list))
		for i, e := range list {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T, want string", ErrFieldType, i, e)
			}
			out[i] = s
		}
		return out, nil
	case map[string]any:
		// An empty Lua table decodes as a map.
		if len(list) == 0 {
			return []string{}, nil
		}
	}
	return nil, typeError("list of strings", v)
}

// languageSet accepts a wildcard string or a list of language identifiers.
func languageSet(v any) (textobject.LanguageSet, error) {
	if s, ok := v.(string); ok {
		if languageWildcards[s] {
			return textobject.AllLanguages(), nil
		}
		return textobject.LanguageSet{}, fmt.Errorf("%w: %q is not a wildcard, use a list", ErrFieldType, s)
	}
	ids, err := stringList(v)
	if err != nil {
		return textobject.LanguageSet{}, err
	}
	return textobject.Languages(ids...), nil
}

func typeError(want string, got any) error {
	return fmt.Errorf("%w: got %T, want %s", ErrFieldType, got, want)
}
