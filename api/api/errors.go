/* errors.go
 * Contains the error kinds returned by the api package. The web and bot packages map these to HTTP statuses and user
 * facing replies
 * Authors: Zachary Bower
 */

package api

import (
	"errors"
	"fmt"

	"smallie/api/external"
	"smallie/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// Error kinds. Use errors.Is to test for them.
var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidState         = errors.New("invalid state")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrRailUnavailable      = external.ErrRailUnavailable
)

// RequestError is an error with a message that is safe to show to the caller
type RequestError struct {
	Kind error
	Msg  string
}

func (e *RequestError) Error() string {
	return e.Msg
}

func (e *RequestError) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &RequestError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func validationError(err error) error {
	return &RequestError{Kind: ErrValidation, Msg: err.Error()}
}

// translate maps store errors onto error kinds. what names the missing document in the message.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return newError(ErrNotFound, "%s not found", what)
	case errors.Is(err, store.ErrStatusChanged):
		return newError(ErrInvalidState, "%s was changed by another request", what)
	default:
		return err
	}
}
