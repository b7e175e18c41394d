package patchscript

import (
	"errors"
	"fmt"
	"os"

	"github.com/cwbudde/algo-rack/module"
	"github.com/cwbudde/algo-rack/patch"
	lua "github.com/yuin/gopher-lua"
)

// ErrScript wraps every error raised while running a script.
var ErrScript = errors.New("patchscript: script failed")

type builder struct {
	registry *module.Registry
	ids      []string
	modules  []module.Module
	conns    []patch.Connection
}

// Run executes src and returns the patch it describes.
func Run(src string, registry *module.Registry) (patch.State, error) {
	return run(registry, func(L *lua.LState) error { return L.DoString(src) })
}

// RunFile executes the script stored at path.
func RunFile(path string, registry *module.Registry) (patch.State, error) {
	if _, err := os.Stat(path); err != nil {
		return patch.State{}, fmt.Errorf("patchscript: %w", err)
	}

	return run(registry, func(L *lua.LState) error { return L.DoFile(path) })
}

func run(registry *module.Registry, exec func(*lua.LState) error) (patch.State, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	if err := openLibs(L); err != nil {
		return patch.State{}, fmt.Errorf("%w: %w", ErrScript, err)
	}

	b := &builder{registry: registry}
	L.SetGlobal("rack", b.table(L))

	if err := exec(L); err != nil {
		return patch.State{}, fmt.Errorf("%w: %w", ErrScript, err)
	}

	return b.state(), nil
}

func openLibs(L *lua.LState) error {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}

	for _, lib := range libs {
		err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name))
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *builder) table(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("sink", lua.LNumber(patch.SinkIndex))
	t.RawSetString("add", L.NewFunction(b.add))
	t.RawSetString("connect", L.NewFunction(b.connect))
	t.RawSetString("output", L.NewFunction(b.output))
	t.RawSetString("set", L.NewFunction(b.set))
	t.RawSetString("ids", L.NewFunction(b.listIDs))

	return t
}

func (b *builder) add(L *lua.LState) int {
	id := L.CheckString(1)

	m, err := b.registry.New(id)
	if err != nil {
		L.RaiseError("%v", err)

		return 0
	}

	b.ids = append(b.ids, id)
	b.modules = append(b.modules, m)
	L.Push(lua.LNumber(len(b.modules) - 1))

	return 1
}

// lookup returns the module at index i. RaiseError does not return.
func (b *builder) lookup(L *lua.LState, i int) module.Module {
	if i < 0 || i >= len(b.modules) {
		L.RaiseError("no module with index %d", i)
	}

	return b.modules[i]
}

func (b *builder) connect(L *lua.LState) int {
	b.link(L, L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4))

	return 0
}

func (b *builder) output(L *lua.LState) int {
	b.link(L, L.CheckInt(1), L.CheckInt(2), patch.SinkIndex, 0)

	return 0
}

func (b *builder) link(L *lua.LState, src, srcCh, dst, dstCh int) {
	if sm := b.lookup(L, src); srcCh < 0 || srcCh >= sm.Outputs() {
		L.RaiseError("module %d has no output channel %d", src, srcCh)
	}

	switch {
	case dst == patch.SinkIndex && dstCh != 0:
		L.RaiseError("the sink has a single input channel 0")
	case dst != patch.SinkIndex:
		if dm := b.lookup(L, dst); dstCh < 0 || dstCh >= dm.Inputs() {
			L.RaiseError("module %d has no input channel %d", dst, dstCh)
		}
	}

	b.conns = append(b.conns, patch.Connection{
		SrcIndex:   src,
		SrcChannel: srcCh,
		DstIndex:   dst,
		DstChannel: dstCh,
	})
}

func (b *builder) set(L *lua.LState) int {
	m := b.lookup(L, L.CheckInt(1))
	name := L.CheckString(2)

	field, ok := m.Params().Lookup(name)
	if !ok {
		L.ArgError(2, fmt.Sprintf("unknown parameter %q", name))
	}

	switch v := L.CheckAny(3).(type) {
	case lua.LNumber:
		if field.List != nil {
			L.ArgError(3, fmt.Sprintf("parameter %q expects a table", name))
		}

		field.Scalar.SetValue(float32(v))
	case *lua.LTable:
		if field.List == nil {
			L.ArgError(3, fmt.Sprintf("parameter %q expects a number", name))
		}

		for i := range min(v.Len(), len(field.List)) {
			n, ok := v.RawGetInt(i + 1).(lua.LNumber)
			if !ok {
				L.ArgError(3, fmt.Sprintf("%s[%d] is not a number", name, i+1))
			}

			field.List[i].SetValue(float32(n))
		}
	default:
		L.ArgError(3, "number or table expected")
	}

	return 0
}

func (b *builder) listIDs(L *lua.LState) int {
	t := L.NewTable()
	for _, id := range b.registry.IDs() {
		t.Append(lua.LString(id))
	}

	L.Push(t)

	return 1
}

func (b *builder) state() patch.State {
	s := patch.State{
		Modules:     make([]patch.ModuleState, len(b.modules)),
		Connections: append([]patch.Connection(nil), b.conns...),
	}

	for i, m := range b.modules {
		s.Modules[i] = patch.ModuleState{ID: b.ids[i], Params: m.Params().Serialize()}
	}

	return s
}
