package sigfox

// Pointer helpers for building partial-update payloads. Update structs use
// pointer fields so that "not provided" and "explicitly set to the zero
// value" serialize differently: nil fields are omitted from the request
// body, non-nil fields are sent even when they point at false or 0.

// String returns a pointer to v.
func String(v string) *string { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }
