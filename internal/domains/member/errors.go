package member

import "errors"

// Repository-level errors
var (
	// Not Found
	ErrMemberNotFound = errors.New("member not found")

	// Conflict - raised by the storage layer when the unique constraint on
	// email fires. The service always translates this into
	// AlreadyRegisteredError before it reaches a handler.
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Photo workflow errors
var (
	ErrNoFileUploaded    = errors.New("no file uploaded")
	ErrBadImageName      = errors.New("image filename has no extension")
	ErrPhotoUploadFailed = errors.New("photo upload failed")
)

// AlreadyRegisteredError is the business outcome for a duplicate email: not a
// hard failure, the caller shows a friendly "already registered" page using
// the existing member's first name.
type AlreadyRegisteredError struct {
	FirstName string
}

func (e *AlreadyRegisteredError) Error() string {
	return "email is already registered"
}
