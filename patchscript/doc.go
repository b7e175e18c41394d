// Package patchscript builds patches from Lua scripts.
//
// A script runs with the base, table, string and math libraries and a
// global table named rack:
//
//	local clock = rack.add("clock")      -- returns a module index
//	local vco   = rack.add("vco")
//	rack.set(clock, "bpm", 140)
//	rack.connect(clock, 0, vco, 0)       -- src, src channel, dst, dst channel
//	rack.output(vco, 0)                  -- route to the audio sink
//	rack.set(seq, "notes", {60, 62, 64})
//
// Module indices start at 0 and match the indices of the resulting
// patch.State. rack.sink is the index of the audio sink and rack.ids()
// lists the registered module identifiers.
package patchscript
