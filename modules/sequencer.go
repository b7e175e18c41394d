package modules

import (
	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/module"
)

// SequenceLength is the number of steps of a Sequencer.
const SequenceLength = 8

// Sequencer channels.
const (
	SequencerTriggerIn = 0
	SequencerVOctOut   = 0
)

// Sequencer steps through SequenceLength notes, advancing on each rising
// trigger edge. The first edge selects step 0.
type Sequencer struct {
	Notes [SequenceLength]*module.Note
}

// NewSequencer returns a sequencer playing notes; unspecified steps default
// to A4 (69). Extra notes are ignored.
func NewSequencer(notes ...uint8) *Sequencer {
	s := &Sequencer{}
	for i := range s.Notes {
		n := uint8(69)
		if i < len(notes) {
			n = notes[i]
		}

		s.Notes[i] = module.NewNote(n)
	}

	return s
}

func (*Sequencer) Inputs() int  { return 1 }
func (*Sequencer) Outputs() int { return 1 }

func (s *Sequencer) Params() module.ParamSet {
	notes := make([]module.Scalar, len(s.Notes))
	for i, n := range s.Notes {
		notes[i] = n
	}

	return module.ParamSet{{Name: "notes", List: notes}}
}

// NewAudioUnit implements module.Module.
func (s *Sequencer) NewAudioUnit() module.AudioUnit {
	return &sequencerUnit{
		params:   s,
		trigger:  eurorack.DefaultSchmittTrigger(),
		position: SequenceLength - 1,
	}
}

type sequencerUnit struct {
	params   *Sequencer
	trigger  eurorack.SchmittTrigger
	position int
}

func (u *sequencerUnit) Reset(int) {}

func (u *sequencerUnit) Tick(in []module.Jack, out []eurorack.Voltage) {
	if u.trigger.Detect(in[SequencerTriggerIn].Or(0)) {
		u.position = (u.position + 1) % SequenceLength
	}

	out[SequencerVOctOut] = u.params.Notes[u.position].Voltage()
}
