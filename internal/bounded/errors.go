package bounded

import (
	"errors"
	"fmt"
)

// Property names used in validation errors and by the mutable-property
// surface built on top of a Set.
const (
	PropMinimum         = "minValue"
	PropMaximum         = "maxValue"
	PropMinimumInterval = "minimumInterval"
	PropIncrementDelta  = "incrementDelta"
	PropValues          = "values"
	PropIdentifiers     = "fieldNames"
)

var (
	ErrNoIdentifiers        = errors.New("bounded: no identifiers")
	ErrDuplicateIdentifier  = errors.New("bounded: duplicate identifier")
	ErrUnknownIdentifier    = errors.New("bounded: unknown identifier")
	ErrMissingValue         = errors.New("bounded: missing value")
	ErrInvertedBounds       = errors.New("bounded: minimum exceeds maximum")
	ErrNegativeInterval     = errors.New("bounded: minimum interval is negative")
	ErrNonPositiveIncrement = errors.New("bounded: increment delta must be positive")
	ErrUnsatisfiable        = errors.New("bounded: bounds cannot hold all values at the minimum interval")
	ErrBrokenTranslation    = errors.New("bounded: locked values must move by the same delta")
)

// PropertyError reports a configuration or validation failure for one
// identifier's property. The Set is unchanged when one is returned.
type PropertyError struct {
	Identifier string
	Property   string
	Value      interface{}
	Err        error
}

func (e *PropertyError) Error() string {
	if e == nil {
		return "<nil>"
	}
	target := e.Property
	if e.Identifier != "" {
		target = fmt.Sprintf("%s[%s]", e.Property, e.Identifier)
	}
	if e.Value != nil {
		return fmt.Sprintf("bounded: %s=%v: %v", target, e.Value, e.Err)
	}
	return fmt.Sprintf("bounded: %s: %v", target, e.Err)
}

func (e *PropertyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func propertyError(id, prop string, value interface{}, err error) error {
	var pe *PropertyError
	if errors.As(err, &pe) {
		return err
	}
	return &PropertyError{Identifier: id, Property: prop, Value: value, Err: err}
}
