package ojapi

import "fmt"

// APIError is an error reported by the judge inside a successful HTTP response.
type APIError struct {
	Endpoint string
	Code     string
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Endpoint, e.Code, e.Message)
}
