package fallback

import (
	"fmt"

	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

// DataSourceUnavailableError records why one step of a fallback chain was
// skipped. It is used to build the fallback reason and never returned to
// callers of the service.
type DataSourceUnavailableError struct {
	Domain models.Domain
	Source models.DataSource
	Reason string
	Err    error
}

func (e *DataSourceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s unavailable: %s: %v", e.Domain, e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s unavailable: %s", e.Domain, e.Source, e.Reason)
}

func (e *DataSourceUnavailableError) Unwrap() error {
	return e.Err
}

func NewDataSourceUnavailableError(domain models.Domain, source models.DataSource, reason string, err error) *DataSourceUnavailableError {
	return &DataSourceUnavailableError{
		Domain: domain,
		Source: source,
		Reason: reason,
		Err:    err,
	}
}
