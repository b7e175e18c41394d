package patch

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-rack/module"
)

var (
	// ErrUnknownModule is returned for handles the patch did not create.
	ErrUnknownModule = errors.New("patch: unknown module")
	// ErrInvalidChannel is returned for channels outside a module's jacks.
	ErrInvalidChannel = errors.New("patch: channel out of range")
	// ErrNotConnected is returned when removing a cable that does not exist.
	ErrNotConnected = errors.New("patch: no such connection")
	// ErrInvalidState is returned by Load for inconsistent states.
	ErrInvalidState = errors.New("patch: invalid state")
)

// Target receives the changes made to a patch. It is implemented by
// *rack.Rack for offline use and by *audiohost.Host while playing.
type Target interface {
	AddUnit(unit module.AudioUnit, inputs, outputs int) (module.Handle, error)
	Connect(src module.Output, dst module.Input) error
	Disconnect(src module.Output, dst module.Input) error
}

// Instance is a module created by a patch.
type Instance struct {
	ID     string
	Handle module.Handle
	Module module.Module
}

// Cable is a connection recorded by a patch.
type Cable struct {
	Src module.Output
	Dst module.Input
}

// Patch tracks modules and cables on the control side. Each input jack
// holds at most one cable; connecting to an occupied input replaces the
// previous cable.
type Patch struct {
	registry *module.Registry
	target   Target

	instances []Instance
	byHandle  map[module.Handle]int
	cables    []Cable
}

// New returns an empty patch building modules from registry and forwarding
// changes to target.
func New(registry *module.Registry, target Target) *Patch {
	return &Patch{
		registry: registry,
		target:   target,
		byHandle: make(map[module.Handle]int),
	}
}

// AddModule instantiates the module registered under id and adds its unit
// to the target.
func (p *Patch) AddModule(id string) (module.Handle, error) {
	m, err := p.registry.New(id)
	if err != nil {
		return 0, err
	}

	return p.add(id, m)
}

func (p *Patch) add(id string, m module.Module) (module.Handle, error) {
	h, err := p.target.AddUnit(m.NewAudioUnit(), m.Inputs(), m.Outputs())
	if err != nil {
		return 0, fmt.Errorf("patch: add %q: %w", id, err)
	}

	p.instances = append(p.instances, Instance{ID: id, Handle: h, Module: m})
	p.byHandle[h] = len(p.instances) - 1

	return h, nil
}

// Module returns the module behind h.
func (p *Patch) Module(h module.Handle) (module.Module, bool) {
	i, ok := p.byHandle[h]
	if !ok {
		return nil, false
	}

	return p.instances[i].Module, true
}

// Modules returns the modules in creation order.
func (p *Patch) Modules() []Instance {
	return slices.Clone(p.instances)
}

// Cables returns the recorded cables in creation order.
func (p *Patch) Cables() []Cable {
	return slices.Clone(p.cables)
}

// Connect validates and adds a cable, then removes any cable previously
// plugged into dst. A failed connect leaves the patch and the target
// unchanged.
func (p *Patch) Connect(src module.Output, dst module.Input) error {
	if err := p.validate(src, dst); err != nil {
		return fmt.Errorf("patch: connect %v -> %v: %w", src, dst, err)
	}

	old := slices.IndexFunc(p.cables, func(c Cable) bool { return c.Dst == dst })

	if err := p.target.Connect(src, dst); err != nil {
		return fmt.Errorf("patch: connect %v -> %v: %w", src, dst, err)
	}

	p.cables = append(p.cables, Cable{Src: src, Dst: dst})

	switch {
	case old < 0:
	case dst.Module.IsSink():
		// the target replaced its output selection on connect
		p.cables = slices.Delete(p.cables, old, old+1)
	default:
		// until the old cable is gone the newer one wins the input
		if err := p.remove(old); err != nil {
			return err
		}
	}

	return nil
}

// Disconnect removes the cable from src to dst.
func (p *Patch) Disconnect(src module.Output, dst module.Input) error {
	i := slices.Index(p.cables, Cable{Src: src, Dst: dst})
	if i < 0 {
		return fmt.Errorf("patch: disconnect %v -> %v: %w", src, dst, ErrNotConnected)
	}

	return p.remove(i)
}

// ClearInput removes the cable plugged into in, if any.
func (p *Patch) ClearInput(in module.Input) error {
	i := slices.IndexFunc(p.cables, func(c Cable) bool { return c.Dst == in })
	if i < 0 {
		return nil
	}

	return p.remove(i)
}

// ClearOutput removes every cable leaving out.
func (p *Patch) ClearOutput(out module.Output) error {
	for {
		i := slices.IndexFunc(p.cables, func(c Cable) bool { return c.Src == out })
		if i < 0 {
			return nil
		}

		if err := p.remove(i); err != nil {
			return err
		}
	}
}

func (p *Patch) remove(i int) error {
	c := p.cables[i]
	if err := p.target.Disconnect(c.Src, c.Dst); err != nil {
		return fmt.Errorf("patch: disconnect %v -> %v: %w", c.Src, c.Dst, err)
	}

	p.cables = slices.Delete(p.cables, i, i+1)

	return nil
}

func (p *Patch) validate(src module.Output, dst module.Input) error {
	si, ok := p.byHandle[src.Module]
	if !ok {
		return ErrUnknownModule
	}

	if src.Channel < 0 || src.Channel >= p.instances[si].Module.Outputs() {
		return ErrInvalidChannel
	}

	if dst.Module.IsSink() {
		if dst.Channel != 0 {
			return ErrInvalidChannel
		}

		return nil
	}

	di, ok := p.byHandle[dst.Module]
	if !ok {
		return ErrUnknownModule
	}

	if dst.Channel < 0 || dst.Channel >= p.instances[di].Module.Inputs() {
		return ErrInvalidChannel
	}

	return nil
}

// State captures the modules, their parameters and the cables.
func (p *Patch) State() State {
	s := State{
		Modules:     make([]ModuleState, len(p.instances)),
		Connections: make([]Connection, len(p.cables)),
	}

	for i, inst := range p.instances {
		s.Modules[i] = ModuleState{ID: inst.ID, Params: inst.Module.Params().Serialize()}
	}

	for i, c := range p.cables {
		dst := SinkIndex
		if !c.Dst.Module.IsSink() {
			dst = p.byHandle[c.Dst.Module]
		}

		s.Connections[i] = Connection{
			SrcIndex:   p.byHandle[c.Src.Module],
			SrcChannel: c.Src.Channel,
			DstIndex:   dst,
			DstChannel: c.Dst.Channel,
		}
	}

	return s
}

// Load adds the modules and cables of s to the patch. Module indices in s
// are relative to s, so a state can be loaded into a non-empty patch.
func (p *Patch) Load(s State) error {
	handles := make([]module.Handle, len(s.Modules))

	for i, ms := range s.Modules {
		m, err := p.registry.New(ms.ID)
		if err != nil {
			return fmt.Errorf("patch: load module %d: %w", i, err)
		}

		if err := m.Params().Deserialize(ms.Params); err != nil {
			return fmt.Errorf("patch: load module %d: %w", i, err)
		}

		h, err := p.add(ms.ID, m)
		if err != nil {
			return err
		}

		handles[i] = h
	}

	for i, c := range s.Connections {
		if c.SrcIndex < 0 || c.SrcIndex >= len(handles) {
			return fmt.Errorf("%w: connection %d: source index %d", ErrInvalidState, i, c.SrcIndex)
		}

		dst := module.AudioOutputHandle
		if c.DstIndex != SinkIndex {
			if c.DstIndex < 0 || c.DstIndex >= len(handles) {
				return fmt.Errorf("%w: connection %d: destination index %d", ErrInvalidState, i, c.DstIndex)
			}

			dst = handles[c.DstIndex]
		}

		if err := p.Connect(handles[c.SrcIndex].Output(c.SrcChannel), dst.Input(c.DstChannel)); err != nil {
			return fmt.Errorf("patch: load connection %d: %w", i, err)
		}
	}

	return nil
}
