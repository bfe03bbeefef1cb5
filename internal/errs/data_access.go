package errs

import (
	"fmt"
	"net/http"
)

// DataAccessError reports that a storage round-trip failed: the database is
// unreachable, the query timed out or the driver returned an error the
// client cannot act on.
//
// Op names the facade operation ("pedidos_por_usuario", ...).
type DataAccessError struct {
	Op  string
	Err error
}

// NewDataAccessError wraps err as a DataAccessError for op.
func NewDataAccessError(op string, err error) *DataAccessError {
	return &DataAccessError{Op: op, Err: err}
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failed in %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// HTTPError renders the failure for clients. The underlying cause is never
// exposed; it is only logged.
func (e *DataAccessError) HTTPError() *HTTPError {
	return &HTTPError{
		Code:     CodeDataAccess,
		Message:  "The data store could not complete the request",
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}
