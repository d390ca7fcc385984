// Package progress provides the event primitives, non-blocking hub, and emitter
// interfaces used to report what launched search scripts are doing. Child
// processes finish on their own goroutines; the hub batches their events on a
// background goroutine and fans them out to sinks such as the structured log
// and Prometheus.
package progress
