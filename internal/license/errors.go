package license

// ValidationError reports a rejected issuance request. The message is surfaced
// verbatim to the operator.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrDurationRequired is returned when durationDays is missing, zero, or not a
// number.
var ErrDurationRequired = &ValidationError{Message: "La durée de validité est requise."}
