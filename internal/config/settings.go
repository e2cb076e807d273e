package config

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/textobjects/internal/textobject"
)

// settingsPaths are the gjson paths of the text object list in a JSON
// settings document, in lookup order.
var settingsPaths = []string{
	KeyTextObjects,
	KeySection + "." + KeyTextObjects,
	strings.ReplaceAll(KeyFlatTextObject, ".", `\.`),
}

// AddTextObject appends def to the text object list of a JSON settings
// document and returns the updated, indented document. The list already in
// use is extended; a document without one gets a top-level list.
func AddTextObject(data []byte, def *textobject.Definition) ([]byte, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("{}")
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("settings: not a JSON object")
	}

	rec := map[string]any(FromDefinition(def))

	path := settingsPaths[0]
	exists := false
	for _, p := range settingsPaths {
		if r := gjson.GetBytes(data, p); r.Exists() {
			if !r.IsArray() {
				return nil, fmt.Errorf("settings: %w at %q", ErrNotList, p)
			}
			path, exists = p, true
			break
		}
	}

	var (
		out []byte
		err error
	)
	if exists {
		out, err = sjson.SetBytes(data, path+".-1", rec)
	} else {
		out, err = sjson.SetBytes(data, path, []any{rec})
	}
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return pretty.Pretty(out), nil
}
