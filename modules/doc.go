// Package modules provides the stock modules of the rack: oscillators,
// filters, envelopes, clocks, sequencers, amplifiers and a MIDI input.
//
// Channel numbers are exported as constants on each module, e.g.
// VCOSawOut or VCFAudioIn. All voltages follow the eurorack conventions.
//
// Build with -tags fastmath to use polynomial approximations for the
// exponential pitch mapping.
package modules
