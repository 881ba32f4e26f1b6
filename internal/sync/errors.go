package sync

import "fmt"

// ConfigurationError reports a precondition failure that prevents a run
// from starting or continuing at all, such as a missing archive directory
// on import. It is distinct from per-item faults, which are recorded in
// the Result and never abort a run.
type ConfigurationError struct {
	// Directory is the archive directory involved.
	Directory string
	// Err is the underlying fault, or nil when the directory simply does
	// not exist.
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("archive directory %q: %v", e.Directory, e.Err)
	}
	return fmt.Sprintf("%q is not a directory", e.Directory)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
