package upstream

import (
	"errors"
	"fmt"
)

// ErrAuthRequired means the upstream rejected our credential. There is
// no retry target other than re-authenticating.
var ErrAuthRequired = errors.New("authentication required")

// ErrDecode wraps any response body that failed to decode into the
// endpoint's expected shape. Shapes are validated once here at the
// boundary so nothing downstream handles loose maps.
var ErrDecode = errors.New("unexpected upstream response shape")

// APIError is a non-2xx upstream answer with whatever message the
// backend supplied.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.Status)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Message)
}
