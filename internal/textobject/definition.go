package textobject

import (
	"fmt"
	"sort"
	"strings"
)

// Wildcard is the language list value that matches every document.
const Wildcard = "*"

// LanguageSet is either the wildcard or a set of language identifiers.
// The zero value is the wildcard.
type LanguageSet struct {
	ids map[string]struct{}
}

// AllLanguages returns the wildcard set.
func AllLanguages() LanguageSet {
	return LanguageSet{}
}

// Languages returns a set restricted to the given identifiers.
// An empty list restricts to nothing; use AllLanguages for the wildcard.
func Languages(ids ...string) LanguageSet {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return LanguageSet{ids: set}
}

// IsWildcard reports whether the set matches every language.
func (s LanguageSet) IsWildcard() bool {
	return s.ids == nil
}

// Contains reports whether id is in the set.
func (s LanguageSet) Contains(id string) bool {
	if s.ids == nil {
		return true
	}
	_, ok := s.ids[id]
	return ok
}

// IDs returns the identifiers in sorted order, or nil for the wildcard.
func (s LanguageSet) IDs() []string {
	if s.ids == nil {
		return nil
	}
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// String returns "*" for the wildcard or a comma-separated list.
func (s LanguageSet) String() string {
	if s.ids == nil {
		return Wildcard
	}
	return strings.Join(s.IDs(), ",")
}

// Definition describes one user text object.
// Definitions are treated as immutable once constructed.
type Definition struct {
	// Keys identify the binding, following the inside/around prefix key.
	Keys []string

	// Open and Close are the literal delimiter tokens.
	Open  string
	Close string

	// PossiblyMultiline allows the delimiters to be found on other lines.
	PossiblyMultiline bool

	// SupportsInside and SupportsAround select which variants get bound.
	SupportsInside bool
	SupportsAround bool

	// IncludeOpenWhenAround and IncludeCloseWhenAround control whether
	// the around variant selects the delimiter tokens themselves.
	IncludeOpenWhenAround  bool
	IncludeCloseWhenAround bool

	// LanguageIDs scopes the definition to document languages.
	LanguageIDs LanguageSet
}

// DefinitionOption configures a Definition.
type DefinitionOption func(*Definition)

// WithMultiline sets PossiblyMultiline.
func WithMultiline(multiline bool) DefinitionOption {
	return func(d *Definition) {
		d.PossiblyMultiline = multiline
	}
}

// WithInside sets SupportsInside.
func WithInside(supported bool) DefinitionOption {
	return func(d *Definition) {
		d.SupportsInside = supported
	}
}

// WithAround sets SupportsAround.
func WithAround(supported bool) DefinitionOption {
	return func(d *Definition) {
		d.SupportsAround = supported
	}
}

// WithIncludeOpen sets IncludeOpenWhenAround.
func WithIncludeOpen(include bool) DefinitionOption {
	return func(d *Definition) {
		d.IncludeOpenWhenAround = include
	}
}

// WithIncludeClose sets IncludeCloseWhenAround.
func WithIncludeClose(include bool) DefinitionOption {
	return func(d *Definition) {
		d.IncludeCloseWhenAround = include
	}
}

// WithLanguages sets LanguageIDs.
func WithLanguages(set LanguageSet) DefinitionOption {
	return func(d *Definition) {
		d.LanguageIDs = set
	}
}

// NewDefinition builds a validated definition with the default policies:
// single line, inside and around supported, both delimiters included when
// around, every language.
func NewDefinition(keys []string, open, close string, opts ...DefinitionOption) (*Definition, error) {
	d := &Definition{
		Keys:                   append([]string(nil), keys...),
		Open:                   open,
		Close:                  close,
		SupportsInside:         true,
		SupportsAround:         true,
		IncludeOpenWhenAround:  true,
		IncludeCloseWhenAround: true,
		LanguageIDs:            AllLanguages(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the structural invariants of the definition.
func (d *Definition) Validate() error {
	var err error
	switch {
	case len(d.Keys) == 0:
		err = ErrNoKeys
	case d.Open == "":
		err = ErrEmptyOpen
	case d.Close == "":
		err = ErrEmptyClose
	default:
		for _, k := range d.Keys {
			if k == "" {
				err = ErrEmptyKey
				break
			}
		}
	}
	if err != nil {
		return &ValidationError{Keys: d.Keys, Err: err}
	}
	return nil
}

// AppliesTo reports whether the definition is active for a language.
func (d *Definition) AppliesTo(languageID string) bool {
	return d.LanguageIDs.Contains(languageID)
}

// KeyString returns the object keys joined for display and identifiers.
func (d *Definition) KeyString() string {
	return strings.Join(d.Keys, "")
}

// String summarizes the definition, e.g. `[$] "$".."$" inside,around,open,close langs=*`.
func (d *Definition) String() string {
	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{d.PossiblyMultiline, "multiline"},
		{d.SupportsInside, "inside"},
		{d.SupportsAround, "around"},
		{d.IncludeOpenWhenAround, "open"},
		{d.IncludeCloseWhenAround, "close"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	return fmt.Sprintf("[%s] %q..%q %s langs=%s",
		strings.Join(d.Keys, " "), d.Open, d.Close, strings.Join(flags, ","), d.LanguageIDs)
}
