package domain

import "errors"

// Error taxonomy for the analysis pipeline. Callers match with errors.Is;
// concrete causes are wrapped around these sentinels, never replaced by them.
var (
	// ErrSourceUnavailable means the transaction source could not be reached
	// (or timed out). The analysis run aborts and the document stays analyzing.
	ErrSourceUnavailable = errors.New("transaction source unavailable")

	// ErrMalformedRecord means a transaction record failed date or amount
	// parsing. Date-dependent aggregations skip the record; the record itself
	// is still carried in the payload.
	ErrMalformedRecord = errors.New("malformed transaction record")

	// ErrPersistenceFailed means the atomic snapshot commit could not
	// complete. Nothing from the commit is visible.
	ErrPersistenceFailed = errors.New("snapshot persistence failed")

	// ErrValidation means the request input was unusable (missing upload,
	// unsupported document kind). No pipeline run is attempted.
	ErrValidation = errors.New("validation failed")
)

// Retryable reports whether re-invoking the pipeline with the same inputs can
// succeed. Only infrastructure failures qualify; input errors never do.
func Retryable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrPersistenceFailed)
}
