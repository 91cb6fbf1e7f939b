// Package errmsg turns failed operations into messages for the user.
package errmsg

import "fmt"

// Op names something the user asked for, phrased to follow "failed to".
type Op string

const (
	OpInitialize     Op = "initialize application"
	OpCatalogLoad    Op = "load catalog"
	OpCatalogImport  Op = "import catalog"
	OpSourceLoad     Op = "load library sources"
	OpFavoriteToggle Op = "update favorites"
	OpDownloadQueue  Op = "queue download"
	OpDownloadResume Op = "resume downloads"
	OpNotifyConnect  Op = "connect to notification service"
	OpMPRISStart     Op = "start media controls"
)

// Error is a failure of Op. It unwraps to the cause.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string { return string(e.Op) + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Wrap attaches op to err. A nil err stays nil.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Format renders a notice line such as "Failed to queue download: ...".
// It returns "" for a nil err.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}
