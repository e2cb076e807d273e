package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultLuaTimeout bounds the execution time of a Lua config script.
const DefaultLuaTimeout = 2 * time.Second

// LuaLoader loads configuration from Lua scripts. The script either
// returns a table or assigns globals; globals are used when nothing is
// returned.
//
//	customTextObjects = {
//	  { objectKeys = { "$" }, open = "$", close = "$" },
//	}
type LuaLoader struct {
	fs      FileSystem
	path    string
	timeout time.Duration
}

// NewLuaLoader creates a new Lua loader for the given path.
func NewLuaLoader(path string) *LuaLoader {
	return NewLuaLoaderWithFS(DefaultFS(), path)
}

// NewLuaLoaderWithFS creates a Lua loader with a custom file system.
func NewLuaLoaderWithFS(fs FileSystem, path string) *LuaLoader {
	return &LuaLoader{
		fs:      fs,
		path:    path,
		timeout: DefaultLuaTimeout,
	}
}

// SetTimeout changes the script execution limit.
func (l *LuaLoader) SetTimeout(d time.Duration) {
	l.timeout = d
}

// Load reads configuration from the configured path.
func (l *LuaLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path.
func (l *LuaLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := readFile(l.fs, path)
	if err != nil || data == nil {
		return nil, err
	}
	return l.parse(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *LuaLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.parse("<reader>", data)
}

// globalKeys are the globals collected when a script returns nothing.
var globalKeys = []string{"customTextObjects", "vim"}

func (l *LuaLoader) parse(source string, data []byte) (map[string]any, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	// io, os, debug and package stay closed.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	if l.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()
		L.SetContext(ctx)
	}

	fn, err := L.Load(bytes.NewReader(data), source)
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	ret := L.Get(-1)
	L.Pop(1)

	if t, ok := ret.(*lua.LTable); ok {
		m, ok := tableToGo(t, make(map[*lua.LTable]bool)).(map[string]any)
		if !ok {
			return nil, &ParseError{Path: source, Message: "script must return a table with named fields"}
		}
		return m, nil
	}
	if ret != lua.LNil {
		return nil, &ParseError{Path: source, Message: fmt.Sprintf("script returned %s, want table", ret.Type())}
	}

	config := make(map[string]any)
	for _, key := range globalKeys {
		if v := L.GetGlobal(key); v != lua.LNil {
			config[key] = toGoValue(v, make(map[*lua.LTable]bool))
		}
	}
	return config, nil
}

// toGoValue converts a Lua value to a Go value. Functions and userdata
// have no config meaning and become nil.
func toGoValue(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	default:
		return nil
	}
}

// tableToGo converts a Lua table to a slice when its keys are exactly
// 1..n, and to a map otherwise. An empty table becomes an empty map.
func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	isArray := true
	maxN, count := 0, 0
	t.ForEach(func(k, _ lua.LValue) {
		count++
		if kn, ok := k.(lua.LNumber); ok {
			n := int(kn)
			if float64(n) == float64(kn) && n > 0 {
				if n > maxN {
					maxN = n
				}
				return
			}
		}
		isArray = false
	})

	if isArray && maxN > 0 && count == maxN {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = toGoValue(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = strconv.FormatFloat(float64(kv), 'g', -1, 64)
		default:
			key = k.String()
		}
		m[key] = toGoValue(v, visited)
	})
	return m
}
