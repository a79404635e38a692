package member

import "context"

// Repository is the persistence boundary over the members table.
type Repository interface {
	// Create inserts a new row and returns the assigned id.
	// Returns ErrEmailAlreadyExists when the unique constraint on email fires.
	Create(ctx context.Context, m *Member) (int64, error)

	// FindByID returns ErrMemberNotFound when no row has that id.
	FindByID(ctx context.Context, id int64) (*Member, error)

	// FindByEmail returns ErrMemberNotFound when no row matches; callers in
	// the duplicate guard treat that as "absent", not as a failure.
	FindByEmail(ctx context.Context, email string) (*Member, error)

	// Update rewrites all mutable fields. registration_date is write-once and
	// never touched. Returns ErrMemberNotFound when the row is gone.
	Update(ctx context.Context, m *Member) error

	// Delete hard-deletes the row. Returns ErrMemberNotFound when absent.
	Delete(ctx context.Context, id int64) error

	// List returns all members ordered by registration date.
	List(ctx context.Context) ([]Member, error)

	// SetPhotoKey records the object-storage key of the uploaded photo.
	SetPhotoKey(ctx context.Context, id int64, key string) error
}
