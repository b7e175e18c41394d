package patch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-rack/module"
)

// SinkIndex is the module index used in a Connection to address the audio
// sink.
const SinkIndex = -1

// ModuleState is a persisted module: its registry identifier and
// parameter values.
type ModuleState struct {
	ID     string                       `json:"id"`
	Params map[string]module.Serialized `json:"params,omitempty"`
}

// Connection is a persisted cable. Indices refer to State.Modules, or
// SinkIndex for the destination of the output cable.
type Connection struct {
	SrcIndex   int `json:"src_index"`   //nolint:tagliatelle
	SrcChannel int `json:"src_channel"` //nolint:tagliatelle
	DstIndex   int `json:"dst_index"`   //nolint:tagliatelle
	DstChannel int `json:"dst_channel"` //nolint:tagliatelle
}

// State is the persisted form of a patch.
type State struct {
	Modules     []ModuleState `json:"modules"`
	Connections []Connection  `json:"connections"`
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("patch: encode: %w", err)
	}

	return nil
}

// Decode reads a JSON patch.
func Decode(r io.Reader) (State, error) {
	var s State
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return State{}, fmt.Errorf("patch: decode: %w", err)
	}

	return s, nil
}

// ReadFile decodes the patch stored at path.
func ReadFile(path string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		return State{}, fmt.Errorf("patch: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// WriteFile stores s at path, replacing any existing file.
func WriteFile(path string, s State) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("patch: %w", err)
	}

	if err := Encode(f, s); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}
