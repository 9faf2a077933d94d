package domain

// maxSummaryErrors caps how many row error messages a summary carries.
// ErrorCount always reflects the full tally.
const maxSummaryErrors = 10

// Summary is the outcome of one import run.
type Summary struct {
	Source     string   `json:"source"`
	DryRun     bool     `json:"dry_run,omitempty"`
	Processed  int      `json:"processed"`
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
	ErrorCount int      `json:"error_count"`
}

// AddError tallies a row failure, keeping only the first few messages.
func (s *Summary) AddError(msg string) {
	s.ErrorCount++
	if len(s.Errors) < maxSummaryErrors {
		s.Errors = append(s.Errors, msg)
	}
}

// Options controls one import run.
type Options struct {
	// DryRun processes a handful of rows inside a transaction that is
	// always rolled back, so callers can preview resolution behavior.
	DryRun bool
}
