package audiohost

import (
	"fmt"

	"github.com/cwbudde/algo-rack/module"
)

// CommandKind identifies the change a Command applies to the running rack.
type CommandKind uint8

const (
	CommandAddModule CommandKind = iota
	CommandConnect
	CommandDisconnect
)

func (k CommandKind) String() string {
	switch k {
	case CommandAddModule:
		return "add-module"
	case CommandConnect:
		return "connect"
	case CommandDisconnect:
		return "disconnect"
	default:
		return fmt.Sprintf("CommandKind(%d)", uint8(k))
	}
}

// Command is a patch change queued for the audio callback.
type Command struct {
	Kind CommandKind

	// CommandAddModule
	Handle  module.Handle
	Inputs  int
	Outputs int
	Unit    module.AudioUnit

	// CommandConnect, CommandDisconnect
	Src module.Output
	Dst module.Input
}

// AddModule returns a command registering unit under h.
func AddModule(h module.Handle, inputs, outputs int, unit module.AudioUnit) Command {
	return Command{Kind: CommandAddModule, Handle: h, Inputs: inputs, Outputs: outputs, Unit: unit}
}

// Connect returns a command adding a cable from src to dst.
func Connect(src module.Output, dst module.Input) Command {
	return Command{Kind: CommandConnect, Src: src, Dst: dst}
}

// Disconnect returns a command removing a cable from src to dst.
func Disconnect(src module.Output, dst module.Input) Command {
	return Command{Kind: CommandDisconnect, Src: src, Dst: dst}
}

func (c Command) String() string {
	switch c.Kind {
	case CommandAddModule:
		return fmt.Sprintf("%v %v (%d in, %d out)", c.Kind, c.Handle, c.Inputs, c.Outputs)
	default:
		return fmt.Sprintf("%v %v -> %v", c.Kind, c.Src, c.Dst)
	}
}

// FailureKind classifies a Failure.
type FailureKind uint8

const (
	// FailureCommand is a command the rack rejected.
	FailureCommand FailureKind = iota
	// FailurePanic is a panic recovered inside the callback.
	FailurePanic
)

func (k FailureKind) String() string {
	if k == FailurePanic {
		return "panic"
	}

	return "command"
}

// Failure is a problem detected inside the audio callback.
type Failure struct {
	Kind    FailureKind
	Command Command
	Err     error
	Panic   any
}
