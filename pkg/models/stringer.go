package models

// String methods for custom string types.
// These are required for toon serialization, which uses fmt.Stringer.

// Trend
func (t Trend) String() string { return string(t) }
