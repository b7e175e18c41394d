package modules

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/internal/ring"
	"github.com/cwbudde/algo-rack/module"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// MIDI-In channels.
const (
	MIDIInVOctOut = 0
	MIDIInGateOut = 1
)

// midiQueueCapacity bounds the note events buffered between two audio
// callbacks.
const midiQueueCapacity = 256

// ErrMIDIQueueFull is returned by MIDIIn.NoteOn and NoteOff when the audio
// side has not drained earlier events.
var ErrMIDIQueueFull = errors.New("modules: midi event queue full")

type noteEvent struct {
	key uint8
	on  bool
}

// MIDIIn converts MIDI note messages into a monophonic pitch and gate.
// Events are produced by a single goroutine (usually a gomidi listener) and
// consumed by the module's audio unit. Only one unit per MIDIIn may be
// running at a time.
type MIDIIn struct {
	events *ring.Ring[noteEvent]

	mu   sync.Mutex
	stop func()
}

// NewMIDIIn returns a MIDI input that is not yet listening to a port.
func NewMIDIIn() *MIDIIn {
	return &MIDIIn{events: ring.New[noteEvent](midiQueueCapacity)}
}

func (*MIDIIn) Inputs() int             { return 0 }
func (*MIDIIn) Outputs() int            { return 2 }
func (*MIDIIn) Params() module.ParamSet { return nil }

// NewAudioUnit implements module.Module.
func (m *MIDIIn) NewAudioUnit() module.AudioUnit {
	return &midiInUnit{events: m.events}
}

// NoteOn queues a note-on event.
func (m *MIDIIn) NoteOn(key uint8) error {
	if !m.events.Push(noteEvent{key: key, on: true}) {
		return ErrMIDIQueueFull
	}

	return nil
}

// NoteOff queues a note-off event.
func (m *MIDIIn) NoteOff(key uint8) error {
	if !m.events.Push(noteEvent{key: key}) {
		return ErrMIDIQueueFull
	}

	return nil
}

// Handle translates a MIDI message into note events. Messages other than
// note starts and ends are ignored. A note-on with zero velocity ends the
// note.
func (m *MIDIIn) Handle(msg gomidi.Message) error {
	var ch, key, vel uint8

	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return m.NoteOn(key)
	case msg.GetNoteEnd(&ch, &key):
		return m.NoteOff(key)
	default:
		return nil
	}
}

// Listen starts feeding messages from port into the module, replacing any
// previous listener. onError, if not nil, receives listener and queue
// errors.
func (m *MIDIIn) Listen(port drivers.In, onError func(error)) error {
	if port == nil {
		return errors.New("modules: nil midi port")
	}

	if !port.IsOpen() {
		if err := port.Open(); err != nil {
			return fmt.Errorf("modules: open midi port %s: %w", port, err)
		}
	}

	report := func(err error) {
		if onError != nil && err != nil {
			onError(err)
		}
	}

	stop, err := gomidi.ListenTo(port, func(msg gomidi.Message, _ int32) {
		report(m.Handle(msg))
	}, gomidi.HandleError(report))
	if err != nil {
		return fmt.Errorf("modules: listen to midi port %s: %w", port, err)
	}

	m.mu.Lock()
	prev := m.stop
	m.stop = stop
	m.mu.Unlock()

	if prev != nil {
		prev()
	}

	return nil
}

// Close stops the listener, if any.
func (m *MIDIIn) Close() error {
	m.mu.Lock()
	stop := m.stop
	m.stop = nil
	m.mu.Unlock()

	if stop != nil {
		stop()
	}

	return nil
}

type midiInUnit struct {
	events  *ring.Ring[noteEvent]
	active  bool
	key     uint8
	voltage eurorack.Voltage
}

func (u *midiInUnit) Reset(int) {}

func (u *midiInUnit) Tick(_ []module.Jack, out []eurorack.Voltage) {
	for {
		ev, ok := u.events.Pop()
		if !ok {
			break
		}

		switch {
		case ev.on:
			u.active = true
			u.key = ev.key
			u.voltage = eurorack.MIDIToVoltage(ev.key)
		case ev.key == u.key:
			u.active = false
		}
	}

	out[MIDIInVOctOut] = u.voltage

	out[MIDIInGateOut] = 0
	if u.active {
		out[MIDIInGateOut] = eurorack.CVVolts
	}
}
