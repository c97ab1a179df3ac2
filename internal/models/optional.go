package models

// FieldState records how a raw upload cell was interpreted.
type FieldState int

const (
	// FieldAbsent means the column was missing or the cell was blank.
	FieldAbsent FieldState = iota
	// FieldInvalid means the cell had content that could not be used.
	FieldInvalid
	// FieldPresent means the cell parsed to a usable value.
	FieldPresent
)

func (s FieldState) String() string {
	switch s {
	case FieldAbsent:
		return "absent"
	case FieldInvalid:
		return "invalid"
	case FieldPresent:
		return "present"
	default:
		return "unknown"
	}
}

// OptionalInt is an integer cell that may be absent or invalid.
type OptionalInt struct {
	State FieldState
	Value int
}

// OrDefault returns the value when present, def otherwise.
func (o OptionalInt) OrDefault(def int) int {
	if o.State == FieldPresent {
		return o.Value
	}
	return def
}

// Ptr returns a pointer to the value when present, nil otherwise.
func (o OptionalInt) Ptr() *int {
	if o.State != FieldPresent {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalFloat is a decimal cell that may be absent or invalid.
type OptionalFloat struct {
	State FieldState
	Value float64
}

// OrDefault returns the value when present, def otherwise.
func (o OptionalFloat) OrDefault(def float64) float64 {
	if o.State == FieldPresent {
		return o.Value
	}
	return def
}
