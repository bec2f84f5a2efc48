// README: Dataset provider error taxonomy.
package dataset

import "errors"

var (
	// ErrConfig: the generation provider is missing its credential or configuration.
	ErrConfig = errors.New("generation provider not configured")
	// ErrNetwork: the generation call failed in transit; the request may be retried.
	ErrNetwork = errors.New("generation request failed")
	// ErrMalformedResponse: the provider returned data that is not a valid dataset.
	ErrMalformedResponse = errors.New("malformed generation response")
	// ErrInvalidRequest: the generation request itself is out of range.
	ErrInvalidRequest = errors.New("invalid generation request")
)
