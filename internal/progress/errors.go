package progress

import "fmt"

// PersistenceWriteError reports a failed progress or export write. The
// in-memory state is untouched and the previous file is still intact.
type PersistenceWriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error { return e.Err }
