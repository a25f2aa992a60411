package source

import "fmt"

// UpstreamError represents a failed call to a live data provider
type UpstreamError struct {
	Source     string
	Message    string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s API error: %s", e.Source, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates a new upstream error
func NewUpstreamError(source, message string, err error) *UpstreamError {
	return &UpstreamError{
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// InvalidPayloadError is returned when a provider answers with data outside
// the ranges the models accept
type InvalidPayloadError struct {
	Source string
	Field  string
	Value  float64
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("%s returned invalid %s: %v", e.Source, e.Field, e.Value)
}

func NewInvalidPayloadError(source, field string, value float64) *InvalidPayloadError {
	return &InvalidPayloadError{
		Source: source,
		Field:  field,
		Value:  value,
	}
}
