package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fcsgo/fcs/internal/core/event"
	"github.com/fcsgo/fcs/internal/culling"
	"github.com/go-gl/mathgl/mgl32"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Hook function names looked up in the loaded scripts.
const (
	fnAdjustBounds = "adjust_bounds"
	fnOnVisibility = "on_visibility"
)

// Engine wraps a single gopher-lua VM running the bounds and visibility hooks.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm     *lua.LState
	log    *zap.Logger
	loaded int
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory and its hooks/ subdirectory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	e.registerAPI()

	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "hooks")} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// LoadString runs a chunk of Lua source. Used for inline hooks and tests.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load lua chunk: %w", err)
	}
	return nil
}

// Loaded returns how many script files were loaded.
func (e *Engine) Loaded() int { return e.loaded }

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.loaded++
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// registerAPI exposes log_debug and log_info to scripts.
func (e *Engine) registerAPI() {
	e.vm.SetGlobal("log_debug", e.vm.NewFunction(func(L *lua.LState) int {
		e.log.Debug(L.CheckString(1), zap.String("source", "lua"))
		return 0
	}))
	e.vm.SetGlobal("log_info", e.vm.NewFunction(func(L *lua.LState) int {
		e.log.Info(L.CheckString(1), zap.String("source", "lua"))
		return 0
	}))
}

// HasFunction reports whether the scripts define a global function name.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// --- Bounds Hook Bridge ---

// AdjustBounds calls Lua adjust_bounds(ctx) with
// ctx = {name=, kind=, center={x,y,z}, extents={x,y,z}}. The function may
// return a table with center and/or extents to replace; nil keeps b.
func (e *Engine) AdjustBounds(name, kind string, b culling.AABB) culling.AABB {
	fn := e.vm.GetGlobal(fnAdjustBounds)
	if fn == lua.LNil {
		return b
	}

	t := e.vm.NewTable()
	t.RawSetString("name", lua.LString(name))
	t.RawSetString("kind", lua.LString(kind))
	t.RawSetString("center", e.vecTable(b.Center))
	t.RawSetString("extents", e.vecTable(b.Extents))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua adjust_bounds error", zap.String("object", name), zap.Error(err))
		return b
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return b
	}
	if c, ok := rt.RawGetString("center").(*lua.LTable); ok {
		b.Center = lVec(c, b.Center)
	}
	if x, ok := rt.RawGetString("extents").(*lua.LTable); ok {
		b.Extents = lVec(x, b.Extents)
	}
	return b
}

// BoundsHook adapts AdjustBounds to a culling bounds hook. Returns nil when
// no adjust_bounds function is loaded.
func (e *Engine) BoundsHook() culling.BoundsHook {
	if !e.HasFunction(fnAdjustBounds) {
		return nil
	}
	return func(o *culling.Object, b culling.AABB) culling.AABB {
		return e.AdjustBounds(o.Name(), o.Kind().String(), b)
	}
}

// --- Visibility Hook Bridge ---

// OnVisibility calls Lua on_visibility(ctx) with
// ctx = {name=, entity=, visible=, cycle=}.
func (e *Engine) OnVisibility(name string, entity string, visible bool, cycle uint64) {
	fn := e.vm.GetGlobal(fnOnVisibility)
	if fn == lua.LNil {
		return
	}

	t := e.vm.NewTable()
	t.RawSetString("name", lua.LString(name))
	t.RawSetString("entity", lua.LString(entity))
	t.RawSetString("visible", lua.LBool(visible))
	t.RawSetString("cycle", lua.LNumber(cycle))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua on_visibility error", zap.String("object", name), zap.Error(err))
	}
}

// Subscribe forwards visibility transition events from the bus to
// on_visibility. Does nothing when the hook is not defined.
func (e *Engine) Subscribe(bus *event.Bus) {
	if !e.HasFunction(fnOnVisibility) {
		return
	}
	event.Subscribe(bus, func(ev event.BecameVisible) {
		e.OnVisibility(ev.Name, ev.EntityID.String(), true, ev.Cycle)
	})
	event.Subscribe(bus, func(ev event.BecameInvisible) {
		e.OnVisibility(ev.Name, ev.EntityID.String(), false, ev.Cycle)
	})
}

func (e *Engine) vecTable(v mgl32.Vec3) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(v[0]))
	t.RawSetString("y", lua.LNumber(v[1]))
	t.RawSetString("z", lua.LNumber(v[2]))
	return t
}

// lVec reads {x,y,z} from a Lua table; missing fields keep def's value.
func lVec(t *lua.LTable, def mgl32.Vec3) mgl32.Vec3 {
	for i, key := range []string{"x", "y", "z"} {
		if n, ok := t.RawGetString(key).(lua.LNumber); ok {
			def[i] = float32(n)
		}
	}
	return def
}

func (e *Engine) Close() {
	e.vm.Close()
}
