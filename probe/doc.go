// Package probe defines the probe-function contract.
//
// A probe function maps an object to a bounded real value. The engine
// normalizes every raw value into [0, 1] using the probe's declared bounds:
//
//	normalized = (raw - Min) / (Max - Min)
//
// Apply never clamps. A probe that leaves its declared range produces a value
// outside [0, 1]. ApplyChecked reports such values as *ErrOutOfRange and is
// meant for validation runs and tests.
//
// Probes are addressed by identity. Implementations must be deterministic
// and free of side effects so that descriptions are comparable.
package probe
