// Package audiohost runs a rack inside a real-time audio callback.
//
// After Start the callback owns the rack. The control side changes the
// running patch only through commands sent over a bounded lock-free queue,
// and through the atomic parameters of the modules themselves. Failures
// detected inside the callback are queued back and logged by a
// control-side monitor goroutine, so the callback never logs, blocks or
// allocates to report them.
//
// Hardware backends live in the otohost and pahost subpackages. Offline
// drives the same callback synchronously for tests and file rendering.
package audiohost
