package rack

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/module"
)

var (
	// ErrInvalidModule is returned when a cable references a module that
	// does not exist.
	ErrInvalidModule = errors.New("rack: the referenced module does not exist")
	// ErrInvalidChannel is returned when a cable references a channel
	// outside the module's jack count.
	ErrInvalidChannel = errors.New("rack: the referenced module channel does not exist")
	// ErrNotConnected is returned by Disconnect when no matching cable exists.
	ErrNotConnected = errors.New("rack: no such cable")
	// ErrHandleInUse is returned by Insert for a handle already registered.
	ErrHandleInUse = errors.New("rack: handle already in use")
	// ErrHandlesExhausted is returned when every handle below the audio
	// sink sentinel has been issued.
	ErrHandlesExhausted = errors.New("rack: no handles left")
)

// Cable is a directed connection from an output jack to an input jack.
type Cable struct {
	Src module.Output
	Dst module.Input
}

type slot struct {
	handle  module.Handle
	unit    module.AudioUnit
	inputs  []module.Jack
	outputs []eurorack.Voltage
}

// cable caches the slot indices of its endpoints so Tick never consults
// the handle map.
type cable struct {
	Cable
	src int
	dst int
}

// Rack holds the units of a patch, the cables between them and the
// selection of the output feeding the audio sink.
type Rack struct {
	slots  []slot
	index  map[module.Handle]int
	cables []cable

	output    module.Output
	outputIdx int
	hasOutput bool

	next       module.Handle
	sampleRate int
}

// New returns an empty rack.
func New(opts ...Option) *Rack {
	cfg := applyOptions(opts...)

	return &Rack{
		slots:  make([]slot, 0, cfg.modules),
		index:  make(map[module.Handle]int, cfg.modules),
		cables: make([]cable, 0, cfg.cables),
	}
}

// Add registers a unit with the given jack counts and returns its handle.
// If the rack already has a sample rate the unit is reset with it. Add
// panics with ErrHandlesExhausted once the handle space is used up; use
// AddUnit to get an error instead.
func (r *Rack) Add(unit module.AudioUnit, inputs, outputs int) module.Handle {
	h := r.next
	if h.IsSink() {
		panic(ErrHandlesExhausted)
	}

	r.insert(h, unit, inputs, outputs)

	return h
}

// Insert registers a unit under a handle chosen by the caller. Later calls
// to Add continue after the largest handle seen so far.
func (r *Rack) Insert(h module.Handle, unit module.AudioUnit, inputs, outputs int) error {
	if h.IsSink() || unit == nil {
		return fmt.Errorf("insert %v: %w", h, ErrInvalidModule)
	}

	if _, exists := r.index[h]; exists {
		return fmt.Errorf("insert %v: %w", h, ErrHandleInUse)
	}

	r.insert(h, unit, inputs, outputs)

	return nil
}

// AddUnit is Add with an error result, matching the patch.Target contract.
func (r *Rack) AddUnit(unit module.AudioUnit, inputs, outputs int) (module.Handle, error) {
	if unit == nil {
		return 0, fmt.Errorf("add: %w", ErrInvalidModule)
	}

	if r.next.IsSink() {
		return 0, fmt.Errorf("add: %w", ErrHandlesExhausted)
	}

	return r.Add(unit, inputs, outputs), nil
}

func (r *Rack) insert(h module.Handle, unit module.AudioUnit, inputs, outputs int) {
	r.slots = append(r.slots, slot{
		handle:  h,
		unit:    unit,
		inputs:  make([]module.Jack, max(inputs, 0)),
		outputs: make([]eurorack.Voltage, max(outputs, 0)),
	})
	r.index[h] = len(r.slots) - 1

	if h >= r.next {
		r.next = h + 1
	}

	if r.sampleRate > 0 {
		unit.Reset(r.sampleRate)
	}
}

// NextHandle returns the handle the next call to Add will issue.
func (r *Rack) NextHandle() module.Handle {
	return r.next
}

// Connect adds a cable from src to dst. Connecting to the audio sink
// replaces the current output selection.
func (r *Rack) Connect(src module.Output, dst module.Input) error {
	si, err := r.resolveOutput(src)
	if err != nil {
		return fmt.Errorf("connect %v -> %v: %w", src, dst, err)
	}

	if dst.Module.IsSink() {
		if dst.Channel != 0 {
			return fmt.Errorf("connect %v -> %v: %w", src, dst, ErrInvalidChannel)
		}

		r.output, r.outputIdx, r.hasOutput = src, si, true

		return nil
	}

	di, err := r.resolveInput(dst)
	if err != nil {
		return fmt.Errorf("connect %v -> %v: %w", src, dst, err)
	}

	r.cables = append(r.cables, cable{Cable: Cable{Src: src, Dst: dst}, src: si, dst: di})

	return nil
}

// Disconnect removes the first cable from src to dst in insertion order and
// marks the destination input as unpatched.
func (r *Rack) Disconnect(src module.Output, dst module.Input) error {
	if dst.Module.IsSink() {
		if !r.hasOutput || r.output != src || dst.Channel != 0 {
			return fmt.Errorf("disconnect %v -> %v: %w", src, dst, ErrNotConnected)
		}

		r.output, r.outputIdx, r.hasOutput = module.Output{}, 0, false

		return nil
	}

	i := slices.IndexFunc(r.cables, func(c cable) bool {
		return c.Src == src && c.Dst == dst
	})
	if i < 0 {
		return fmt.Errorf("disconnect %v -> %v: %w", src, dst, ErrNotConnected)
	}

	c := r.cables[i]
	r.cables = slices.Delete(r.cables, i, i+1)
	r.slots[c.dst].inputs[dst.Channel] = module.Jack{}

	return nil
}

func (r *Rack) resolveOutput(out module.Output) (int, error) {
	i, ok := r.index[out.Module]
	if !ok {
		return 0, ErrInvalidModule
	}

	if out.Channel < 0 || out.Channel >= len(r.slots[i].outputs) {
		return 0, ErrInvalidChannel
	}

	return i, nil
}

func (r *Rack) resolveInput(in module.Input) (int, error) {
	i, ok := r.index[in.Module]
	if !ok {
		return 0, ErrInvalidModule
	}

	if in.Channel < 0 || in.Channel >= len(r.slots[i].inputs) {
		return 0, ErrInvalidChannel
	}

	return i, nil
}

// Reset resets every unit with the new sample rate. Units added afterwards
// are reset on insertion.
func (r *Rack) Reset(sampleRate int) {
	r.sampleRate = sampleRate
	for i := range r.slots {
		r.slots[i].unit.Reset(sampleRate)
	}
}

// SampleRate returns the rate of the last Reset, or 0.
func (r *Rack) SampleRate() int {
	return r.sampleRate
}

// Tick advances the whole rack by one sample and returns the voltage at the
// audio sink, or 0 when nothing is connected to it.
func (r *Rack) Tick() eurorack.Voltage {
	for i := range r.cables {
		c := &r.cables[i]
		r.slots[c.dst].inputs[c.Dst.Channel] = module.Jack{
			Value:   r.slots[c.src].outputs[c.Src.Channel],
			Patched: true,
		}
	}

	for i := range r.slots {
		s := &r.slots[i]
		s.unit.Tick(s.inputs, s.outputs)
	}

	if !r.hasOutput {
		return 0
	}

	return r.slots[r.outputIdx].outputs[r.output.Channel]
}

// Len returns the number of units in the rack.
func (r *Rack) Len() int {
	return len(r.slots)
}

// Has reports whether h refers to a unit in the rack.
func (r *Rack) Has(h module.Handle) bool {
	_, ok := r.index[h]

	return ok
}

// Cables returns a copy of the cables in insertion order. The cable into
// the audio sink is reported by OutputSource instead.
func (r *Rack) Cables() []Cable {
	out := make([]Cable, len(r.cables))
	for i, c := range r.cables {
		out[i] = c.Cable
	}

	return out
}

// OutputSource returns the output currently routed to the audio sink.
func (r *Rack) OutputSource() (module.Output, bool) {
	return r.output, r.hasOutput
}

// Probe returns the value an output produced on the last tick.
func (r *Rack) Probe(out module.Output) (eurorack.Voltage, error) {
	i, err := r.resolveOutput(out)
	if err != nil {
		return 0, fmt.Errorf("probe %v: %w", out, err)
	}

	return r.slots[i].outputs[out.Channel], nil
}
