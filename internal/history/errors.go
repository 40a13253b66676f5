package history

import "fmt"

// EntryNotFoundError is returned when no entry exists at an index.
type EntryNotFoundError struct {
	Index int
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("history entry %d not found", e.Index)
}
