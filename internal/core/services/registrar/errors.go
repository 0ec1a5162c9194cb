package registrar

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyBatch = errors.New("refusing to submit an empty command batch")

// PartialError reports a sequential submission that stopped part way. The
// commands in Created stay registered.
type PartialError struct {
	Created []string
	Failed  string
	Err     error
}

func (e *PartialError) Error() string {
	if len(e.Created) == 0 {
		return fmt.Sprintf("create %q: %v (nothing registered)", e.Failed, e.Err)
	}
	return fmt.Sprintf("create %q: %v (already registered: %s)", e.Failed, e.Err, strings.Join(e.Created, ", "))
}

func (e *PartialError) Unwrap() error { return e.Err }
