package module

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-rack/eurorack"
)

// ErrParamShape is returned when a serialized parameter does not match the
// shape (number or list) of the parameter it is loaded into.
var ErrParamShape = errors.New("module: parameter shape mismatch")

// Scalar is a single numeric parameter that can be read and written from
// any goroutine.
type Scalar interface {
	Value() float32
	SetValue(v float32)
}

// Float is a float32 parameter backed by an atomic.
type Float struct {
	bits atomic.Uint32
}

// NewFloat returns a Float holding v.
func NewFloat(v float32) *Float {
	f := &Float{}
	f.SetValue(v)

	return f
}

// Value returns the current value.
func (f *Float) Value() float32 {
	return math.Float32frombits(f.bits.Load())
}

// SetValue stores v.
func (f *Float) SetValue(v float32) {
	f.bits.Store(math.Float32bits(v))
}

// Note is a MIDI note number parameter.
type Note struct {
	note atomic.Uint32
}

// NewNote returns a Note holding n.
func NewNote(n uint8) *Note {
	p := &Note{}
	p.Set(n)

	return p
}

// Get returns the note number.
func (n *Note) Get() uint8 {
	return uint8(n.note.Load())
}

// Set stores a note number, clamped to 0..127.
func (n *Note) Set(note uint8) {
	n.note.Store(uint32(min(note, 127)))
}

// Voltage returns the 1 V/octave pitch of the note.
func (n *Note) Voltage() eurorack.Voltage {
	return eurorack.MIDIToVoltage(n.Get())
}

// Value returns the note number as a float.
func (n *Note) Value() float32 {
	return float32(n.Get())
}

// SetValue rounds v to the nearest note in range.
func (n *Note) SetValue(v float32) {
	r := math.Round(float64(v))
	if math.IsNaN(r) {
		return
	}

	n.Set(uint8(math.Max(0, math.Min(127, r))))
}

// Field is one named entry of a ParamSet. Exactly one of Scalar and List is
// set.
type Field struct {
	Name   string
	Scalar Scalar
	List   []Scalar
}

// ParamSet is the ordered list of parameters exposed by a module.
type ParamSet []Field

// Lookup returns the field with the given name.
func (ps ParamSet) Lookup(name string) (Field, bool) {
	for _, f := range ps {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// Serialize captures the current parameter values.
func (ps ParamSet) Serialize() map[string]Serialized {
	out := make(map[string]Serialized, len(ps))

	for _, f := range ps {
		if f.List == nil {
			out[f.Name] = Number(f.Scalar.Value())

			continue
		}

		items := make([]Serialized, len(f.List))
		for i, s := range f.List {
			items[i] = Number(s.Value())
		}

		out[f.Name] = List(items...)
	}

	return out
}

// Deserialize writes values back into the parameters. Unknown names are
// ignored, as are missing ones; list entries beyond the parameter's length
// are dropped.
func (ps ParamSet) Deserialize(values map[string]Serialized) error {
	for _, f := range ps {
		v, ok := values[f.Name]
		if !ok {
			continue
		}

		if f.List == nil {
			if v.IsList() {
				return fmt.Errorf("%w: %s: want number", ErrParamShape, f.Name)
			}

			f.Scalar.SetValue(v.Number)

			continue
		}

		if !v.IsList() {
			return fmt.Errorf("%w: %s: want list", ErrParamShape, f.Name)
		}

		for i, item := range v.List {
			if i >= len(f.List) {
				break
			}

			if item.IsList() {
				return fmt.Errorf("%w: %s[%d]: want number", ErrParamShape, f.Name, i)
			}

			f.List[i].SetValue(item.Number)
		}
	}

	return nil
}

// Serialized is a persisted parameter value: either a number or a list of
// values. It encodes to JSON as a bare number or array.
type Serialized struct {
	Number float32
	List   []Serialized
}

// Number returns a numeric Serialized value.
func Number(v float32) Serialized {
	return Serialized{Number: v}
}

// List returns a list Serialized value.
func List(items ...Serialized) Serialized {
	if items == nil {
		items = []Serialized{}
	}

	return Serialized{List: items}
}

// IsList reports whether s holds a list.
func (s Serialized) IsList() bool {
	return s.List != nil
}

// MarshalJSON implements json.Marshaler.
func (s Serialized) MarshalJSON() ([]byte, error) {
	if s.IsList() {
		return json.Marshal(s.List)
	}

	return json.Marshal(s.Number)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Serialized) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []Serialized
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}

		*s = List(items...)

		return nil
	}

	var n float32
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrParamShape, data)
	}

	*s = Number(n)

	return nil
}
