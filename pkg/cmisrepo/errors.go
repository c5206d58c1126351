package cmisrepo

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds. Every failure the engine reports wraps exactly one of these
// sentinels; binding layers map them to their wire-specific faults with
// errors.Is.
var (
	// ErrNotFound indicates an unknown repository, object, or type id, or a
	// latest-major-version request on a series without a major version.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates illegal id or name syntax, a zero tree
	// depth, or an unknown binding name.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConstraint indicates a violation of a structural invariant:
	// duplicate child name, filing into a non-folder, multi-filing a folder,
	// or a versioning-state-machine violation.
	ErrConstraint = errors.New("constraint violation")

	// ErrUpdateConflict indicates a checkout attempted on a series that is
	// already checked out.
	ErrUpdateConflict = errors.New("update conflict")

	// ErrNotSupported indicates an operation the type or repository does not
	// support, such as checkout on a non-versionable type.
	ErrNotSupported = errors.New("not supported")

	// ErrRepositoryExists indicates a duplicate repository registration.
	// Registration never silently overwrites.
	ErrRepositoryExists = errors.New("repository already exists")
)

// RepositoryError wraps a failure of a repository-level operation.
type RepositoryError struct {
	RepositoryID string
	Op           string
	Err          error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository operation %s failed for repository %s: %v", e.Op, e.RepositoryID, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// ObjectError wraps a failure of an object-level operation.
type ObjectError struct {
	ObjectID uuid.UUID
	Op       string
	Err      error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("object operation %s failed for object %s: %v", e.Op, e.ObjectID, e.Err)
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}
