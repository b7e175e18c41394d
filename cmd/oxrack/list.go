package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-rack/module"
	"github.com/cwbudde/algo-rack/modules"
)

func runList(w io.Writer) error {
	if err := printModules(w, modules.DefaultRegistry()); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "MIDI inputs:")

	ins := gomidi.GetInPorts()
	if len(ins) == 0 {
		fmt.Fprintln(w, "  (none)")
	}

	for _, in := range ins {
		fmt.Fprintf(w, "  %d: %s\n", in.Number(), in.String())
	}

	return nil
}

func printModules(w io.Writer, reg *module.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Module\tInputs\tOutputs\tParameters\n------\t------\t-------\t----------\n"); err != nil {
		return err
	}

	for _, id := range reg.IDs() {
		m, err := reg.New(id)
		if err != nil {
			return err
		}

		var names []string
		for _, f := range m.Params() {
			names = append(names, f.Name)
		}

		if _, err := fmt.Fprintf(tw, "%s\t%d\t%d\t%v\n", id, m.Inputs(), m.Outputs(), names); err != nil {
			return err
		}
	}

	return tw.Flush()
}
