package member

import "context"

// PhotoStorage is the object-storage port the photo workflow goes through.
// Implemented by the MinIO wrapper in internal/infrastructure/storage.
type PhotoStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Service is the business-logic contract for the registration workflow.
type Service interface {
	// Register validates the payload, runs the duplicate guard, and creates
	// the member. Returns validation.Errors for invalid payloads and
	// *AlreadyRegisteredError for duplicate emails (from either the
	// pre-check or a lost insert race).
	Register(ctx context.Context, req RegisterRequest) (*MemberDTO, error)

	Get(ctx context.Context, id int64) (*MemberDTO, error)

	// Update validates and rewrites all fields of an existing member.
	Update(ctx context.Context, id int64, req RegisterRequest) (*MemberDTO, error)

	// Delete removes the member row and, best effort, the photo object.
	Delete(ctx context.Context, id int64) error

	List(ctx context.Context) ([]MemberDTO, error)

	// AttachPhoto uploads the raw file bytes under the derived object key and
	// records the key on the member row.
	AttachPhoto(ctx context.Context, id int64, filename string, data []byte, contentType string) (*MemberDTO, error)
}
