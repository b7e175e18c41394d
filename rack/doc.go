// Package rack implements the graph engine that evaluates a patch of
// modules once per audio sample.
//
// Each Tick first copies every cable's source output into its destination
// input, then ticks every unit in insertion order. Every cable therefore
// delays its signal by exactly one sample, which makes feedback loops and
// self-patches well defined without any ordering of the graph.
//
// A Rack is not safe for concurrent use. Once handed to an audio host it
// must only be touched from the audio callback.
package rack
