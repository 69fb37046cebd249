package arcsight

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrConnection is returned when the ArcSight server cannot be reached
	ErrConnection = goerr.New("connection failed")
	// ErrAPI is returned when ArcSight answers with a non-200 status or an HTML page
	ErrAPI = goerr.New("api failed")
	// ErrInvalidResponse is returned when a response body is not valid JSON
	ErrInvalidResponse = goerr.New("unable to parse reply")
	// ErrMissingField is returned when a required field is absent from a response
	ErrMissingField = goerr.New("missing field in response")
	// ErrAuthentication is returned when login does not yield a token
	ErrAuthentication = goerr.New("authentication failed")
	// ErrVersionMismatch is returned when the ESM version does not match the configured regex
	ErrVersionMismatch = goerr.New("version validation failed")
)

// APIError carries the status code and the message scraped from an ArcSight error page
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

var _ error = &APIError{}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    ParseErrorPage(status, body),
	}
}

func connectionMessage(url string) string {
	return fmt.Sprintf("Error connecting to server. Connection refused from server for %s", url)
}
