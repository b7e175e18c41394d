// Package module defines the contract between the rack and the modules it
// runs.
//
// A Module describes a device: how many input and output jacks it has, its
// parameters, and how to build the AudioUnit that runs on the audio thread.
// Parameters are atomics shared between the Module (control side) and its
// units (audio side), so knobs can be turned while the rack is running.
//
// Modules are looked up by identifier through a Registry:
//
//	reg := module.NewRegistry()
//	reg.MustRegister("vco", func() (module.Module, error) { return modules.NewVCO(), nil })
//	m, err := reg.New("vco")
package module
