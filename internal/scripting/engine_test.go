package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fcsgo/fcs/internal/core/ecs"
	"github.com/fcsgo/fcs/internal/core/event"
	"github.com/fcsgo/fcs/internal/culling"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEngine(t *testing.T, files map[string]string) *Engine {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestNewEngineLoadsScripts(t *testing.T) {
	e := newEngine(t, map[string]string{
		"util.lua":          "function double(x) return x * 2 end",
		"hooks/bounds.lua":  "function adjust_bounds(ctx) return nil end",
		"notes.txt":         "not lua",
		"hooks/nested/x.md": "# ignored",
	})
	require.Equal(t, 2, e.Loaded())
	require.True(t, e.HasFunction("double"))
	require.True(t, e.HasFunction(fnAdjustBounds))
	require.False(t, e.HasFunction(fnOnVisibility))
}

func TestNewEngineMissingDir(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "none"), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()
	require.Zero(t, e.Loaded())
	require.Nil(t, e.BoundsHook())
}

func TestNewEngineSyntaxError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0o644))
	_, err := NewEngine(dir, zap.NewNop())
	require.Error(t, err)
}

func TestAdjustBounds(t *testing.T) {
	e := newEngine(t, nil)
	require.NoError(t, e.LoadString(`
function adjust_bounds(ctx)
  if ctx.name == "tree" then
    return { extents = { y = ctx.extents.y * 2 } }
  end
  if ctx.kind == "dynamic" then
    return { center = { x = 0, y = 0, z = 0 } }
  end
  if ctx.name == "broken" then
    error("boom")
  end
  return nil
end
`))

	b := culling.AABB{Center: mgl32.Vec3{1, 2, 3}, Extents: mgl32.Vec3{1, 1.5, 1}}

	got := e.AdjustBounds("tree", "static", b)
	require.Equal(t, b.Center, got.Center)
	require.Equal(t, mgl32.Vec3{1, 3, 1}, got.Extents)

	got = e.AdjustBounds("cart", "dynamic", b)
	require.Equal(t, mgl32.Vec3{}, got.Center)
	require.Equal(t, b.Extents, got.Extents)

	require.Equal(t, b, e.AdjustBounds("rock", "static", b))
	require.Equal(t, b, e.AdjustBounds("broken", "static", b))
}

func TestBoundsHookRunsBeforeMargin(t *testing.T) {
	e := newEngine(t, nil)
	require.NoError(t, e.LoadString(`
function adjust_bounds(ctx)
  return { extents = { x = 2, y = 2, z = 2 } }
end
`))
	hook := e.BoundsHook()
	require.NotNil(t, hook)

	owner := &boxOwner{b: culling.AABB{Extents: mgl32.Vec3{1, 1, 1}}}
	o := culling.NewObject(owner, culling.ObjectOptions{Name: "crate", Margin: 1})
	o.AddBoundsHook(hook)
	require.True(t, o.RecalculateBounds())
	require.Equal(t, mgl32.Vec3{2.5, 2.5, 2.5}, o.Bounds().Extents)
}

type boxOwner struct{ b culling.AABB }

func (o *boxOwner) CalculateBounds() (culling.AABB, bool) { return o.b, true }

func TestSubscribeForwardsTransitions(t *testing.T) {
	e := newEngine(t, nil)
	require.NoError(t, e.LoadString(`
seen = {}
function on_visibility(ctx)
  local state = "hidden"
  if ctx.visible then state = "shown" end
  table.insert(seen, ctx.name .. ":" .. state .. ":" .. ctx.cycle)
end
`))

	bus := event.NewBus()
	e.Subscribe(bus)
	id := ecs.NewEntityID(3, 1)
	event.Emit(bus, event.BecameVisible{EntityID: id, Name: "crate", Cycle: 4})
	event.Emit(bus, event.BecameInvisible{EntityID: id, Name: "crate", Cycle: 5})
	bus.SwapBuffers()
	bus.DispatchAll()

	require.NoError(t, e.LoadString(`result = table.concat(seen, ",")`))
	got := e.vm.GetGlobal("result").String()
	require.Contains(t, got, "crate:shown:4")
	require.Contains(t, got, "crate:hidden:5")
}

func TestSubscribeWithoutHook(t *testing.T) {
	e := newEngine(t, nil)
	bus := event.NewBus()
	e.Subscribe(bus)
	event.Emit(bus, event.BecameVisible{Name: "crate"})
	bus.SwapBuffers()
	bus.DispatchAll()
}

func TestLogAPI(t *testing.T) {
	e := newEngine(t, nil)
	require.NoError(t, e.LoadString(`log_info("hello") log_debug("there")`))
	require.Error(t, e.LoadString(`log_info()`))
}
