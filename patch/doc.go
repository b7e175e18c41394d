// Package patch keeps the control-side model of a running patch: which
// modules were created from which registry identifiers, and which cables
// connect them. It forwards every change to a Target (a rack or an audio
// host) and can capture or restore the whole patch as a State.
package patch
