package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Store saves and retrieves artifacts by name.
type Store interface {
	Save(name string, data []byte) error
	Get(name string) ([]byte, error)
	List() ([]string, error)
	Delete(name string) error
}

// ValidateName reports whether name is usable by every Store: non-empty, a
// single path element and not a dot entry.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return fmt.Errorf("%w: %q is not a plain file name", ErrInvalidName, name)
	}
	return nil
}
