package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no source holds the requested template.
	ErrNotFound = errors.New("no templates exist with that id")
	// ErrInvalidID is returned for ids that are not "namespace//slug".
	ErrInvalidID = errors.New("invalid template id")
)

// InvalidParamError reports a request parameter whose value is not allowed.
type InvalidParamError struct {
	Param   string
	Message string
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Message)
}
