package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

// firstObject returns the first entry of config["customTextObjects"].
func firstObject(t *testing.T, config map[string]any) map[string]any {
	t.Helper()
	list, ok := config["customTextObjects"].([]any)
	if !ok || len(list) == 0 {
		t.Fatalf("customTextObjects = %#v, want non-empty list", config["customTextObjects"])
	}
	obj, ok := list[0].(map[string]any)
	if !ok {
		t.Fatalf("customTextObjects[0] = %#v, want map", list[0])
	}
	return obj
}

func checkDollar(t *testing.T, obj map[string]any) {
	t.Helper()
	keys, ok := obj["objectKeys"].([]any)
	if !ok || len(keys) != 1 || keys[0] != "$" {
		t.Errorf("objectKeys = %#v, want [$]", obj["objectKeys"])
	}
	if obj["open"] != "$" {
		t.Errorf("open = %v, want $", obj["open"])
	}
	if obj["close"] != "$" {
		t.Errorf("close = %v, want $", obj["close"])
	}
	if obj["possiblyMultiline"] != true {
		t.Errorf("possiblyMultiline = %v, want true", obj["possiblyMultiline"])
	}
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[[customTextObjects]]
objectKeys = ["$"]
open = "$"
close = "$"
possiblyMultiline = true
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	checkDollar(t, firstObject(t, config))
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "open = \n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("Path = %q, want /bad.toml", perr.Path)
	}
	if perr.Line == 0 {
		t.Error("expected a line number")
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.yaml", `
customTextObjects:
  - objectKeys: ["$"]
    open: "$"
    close: "$"
    possiblyMultiline: true
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/config.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	checkDollar(t, firstObject(t, config))
}

func TestYAMLLoader_Empty(t *testing.T) {
	config, err := NewYAMLLoader("").LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if config == nil || len(config) != 0 {
		t.Errorf("config = %#v, want empty map", config)
	}
}

func TestYAMLLoader_ParseError(t *testing.T) {
	_, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("a: [1, 2\n"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestJSONLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/settings.json", `{
  "editor.fontSize": 14,
  "vim.customTextObjects": [
    {"objectKeys": ["$"], "open": "$", "close": "$", "possiblyMultiline": true}
  ]
}`)

	config, err := NewJSONLoaderWithFS(memfs, "/settings.json").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	list, ok := config["vim.customTextObjects"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("vim.customTextObjects = %#v", config["vim.customTextObjects"])
	}
	checkDollar(t, list[0].(map[string]any))
	if config["editor.fontSize"] != float64(14) {
		t.Errorf("editor.fontSize = %#v, want 14", config["editor.fontSize"])
	}
}

func TestJSONLoader_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"syntax", `{"a": `},
		{"comment", "{\n// comment\n\"a\": 1}"},
		{"array", `[1, 2]`},
		{"scalar", `"text"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJSONLoader("").LoadFromReader(strings.NewReader(tt.input))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestLuaLoader_Return(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.lua", `
local dollar = { objectKeys = { "$" }, open = "$", close = "$", possiblyMultiline = true }
return { customTextObjects = { dollar } }
`)

	config, err := NewLuaLoaderWithFS(memfs, "/config.lua").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	checkDollar(t, firstObject(t, config))
}

func TestLuaLoader_Globals(t *testing.T) {
	src := `
customTextObjects = {}
for _, pair in ipairs({ { "$", "$" }, { "<", ">" } }) do
  table.insert(customTextObjects, { objectKeys = { pair[1] }, open = pair[1], close = pair[2] })
end
`
	config, err := NewLuaLoader("").LoadFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	list, ok := config["customTextObjects"].([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("customTextObjects = %#v", config["customTextObjects"])
	}
	second := list[1].(map[string]any)
	if second["open"] != "<" || second["close"] != ">" {
		t.Errorf("second = %#v", second)
	}
}

func TestLuaLoader_Numbers(t *testing.T) {
	config, err := NewLuaLoader("").LoadFromReader(strings.NewReader(`return { a = 3, b = 1.5, c = {} }`))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if config["a"] != int64(3) {
		t.Errorf("a = %#v, want int64(3)", config["a"])
	}
	if config["b"] != 1.5 {
		t.Errorf("b = %#v, want 1.5", config["b"])
	}
	if m, ok := config["c"].(map[string]any); !ok || len(m) != 0 {
		t.Errorf("c = %#v, want empty map", config["c"])
	}
}

func TestLuaLoader_Restricted(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"io", `io.open("/etc/passwd")`},
		{"os", `os.execute("true")`},
		{"dofile", `dofile("/tmp/x.lua")`},
		{"require", `require("socket")`},
		{"syntax", `return {`},
		{"scalar", `return 42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLuaLoader("").LoadFromReader(strings.NewReader(tt.src))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestLuaLoader_Timeout(t *testing.T) {
	l := NewLuaLoader("")
	l.SetTimeout(50 * time.Millisecond)
	_, err := l.LoadFromReader(strings.NewReader(`while true do end`))
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	memfs := NewMemFS()
	for _, path := range []string{"/a.toml", "/a.yaml", "/a.json", "/a.lua"} {
		l, err := ForPath(memfs, path)
		if err != nil {
			t.Fatalf("ForPath(%q) failed: %v", path, err)
		}
		config, err := l.Load()
		if err != nil {
			t.Errorf("%s: expected nil error for missing file, got %v", path, err)
		}
		if config != nil {
			t.Errorf("%s: expected nil config for missing file", path)
		}
	}
}

func TestForPath(t *testing.T) {
	memfs := NewMemFS()
	tests := []struct {
		path string
		want string
	}{
		{"a.toml", "*loader.TOMLLoader"},
		{"a.YAML", "*loader.YAMLLoader"},
		{"a.yml", "*loader.YAMLLoader"},
		{"settings.json", "*loader.JSONLoader"},
		{"init.lua", "*loader.LuaLoader"},
	}

	for _, tt := range tests {
		l, err := ForPath(memfs, tt.path)
		if err != nil {
			t.Fatalf("ForPath(%q) failed: %v", tt.path, err)
		}
		if got := typeName(l); got != tt.want {
			t.Errorf("ForPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}

	if _, err := ForPath(memfs, "a.ini"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ForPath(a.ini) error = %v, want ErrUnsupportedFormat", err)
	}
}

func typeName(l FileLoader) string {
	switch l.(type) {
	case *TOMLLoader:
		return "*loader.TOMLLoader"
	case *YAMLLoader:
		return "*loader.YAMLLoader"
	case *JSONLoader:
		return "*loader.JSONLoader"
	case *LuaLoader:
		return "*loader.LuaLoader"
	}
	return "unknown"
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a", Line: 2, Column: 3, Message: "m"}, "parse error in a at line 2, column 3: m"},
		{&ParseError{Path: "a", Line: 2, Message: "m"}, "parse error in a at line 2: m"},
		{&ParseError{Path: "a", Message: "m"}, "parse error in a: m"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
