package module

import (
	"math"
	"strconv"

	"github.com/cwbudde/algo-rack/eurorack"
)

// Handle identifies a unit inside a rack. Handles are issued in increasing
// order and never reused.
type Handle uint32

// AudioOutputHandle addresses the rack's audio sink. It has a single input
// channel, 0.
const AudioOutputHandle Handle = math.MaxUint32

// Input returns the input jack ch of h.
func (h Handle) Input(ch int) Input {
	return Input{Module: h, Channel: ch}
}

// Output returns the output jack ch of h.
func (h Handle) Output(ch int) Output {
	return Output{Module: h, Channel: ch}
}

// IsSink reports whether h is the audio sink.
func (h Handle) IsSink() bool {
	return h == AudioOutputHandle
}

func (h Handle) String() string {
	if h.IsSink() {
		return "sink"
	}

	return "#" + strconv.FormatUint(uint64(h), 10)
}

// Input addresses an input jack.
type Input struct {
	Module  Handle
	Channel int
}

func (in Input) String() string {
	return in.Module.String() + ".in" + strconv.Itoa(in.Channel)
}

// Output addresses an output jack.
type Output struct {
	Module  Handle
	Channel int
}

func (out Output) String() string {
	return out.Module.String() + ".out" + strconv.Itoa(out.Channel)
}

// Jack is the state of an input as seen by a unit on each tick. An
// unpatched jack is distinct from a patched jack carrying 0 V.
type Jack struct {
	Value   eurorack.Voltage
	Patched bool
}

// Or returns the jack value when patched and def otherwise.
func (j Jack) Or(def eurorack.Voltage) eurorack.Voltage {
	if j.Patched {
		return j.Value
	}

	return def
}
