package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"membership-backend/internal/domains/member"
	"membership-backend/pkg/logger"
)

// uploadTimeout bounds the object-storage round trip; expiry is treated as an
// upload failure like any other.
const uploadTimeout = 30 * time.Second

type memberService struct {
	repo    member.Repository
	storage member.PhotoStorage
}

func NewMemberService(repo member.Repository, storage member.PhotoStorage) member.Service {
	return &memberService{repo: repo, storage: storage}
}

// Register runs the registration workflow: validate, duplicate guard, create.
//
// The guard's check-then-insert is not atomic; the unique constraint on email
// is the actual guarantee. Losing the insert race produces the exact same
// already-registered outcome as the pre-check.
func (s *memberService) Register(ctx context.Context, req member.RegisterRequest) (*member.MemberDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Duplicate guard: fast path only.
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, &member.AlreadyRegisteredError{FirstName: existing.FirstName}
	}
	if !errors.Is(err, member.ErrMemberNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	m := req.ToMember()
	m.RegistrationDate = time.Now().UTC()

	id, err := s.repo.Create(ctx, m)
	if errors.Is(err, member.ErrEmailAlreadyExists) {
		// Lost the race to a concurrent submission with the same email.
		if winner, ferr := s.repo.FindByEmail(ctx, req.Email); ferr == nil {
			return nil, &member.AlreadyRegisteredError{FirstName: winner.FirstName}
		}
		return nil, &member.AlreadyRegisteredError{FirstName: req.FirstName}
	}
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}

	m.ID = id
	dto := m.ToDTO()
	return &dto, nil
}

func (s *memberService) Get(ctx context.Context, id int64) (*member.MemberDTO, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := m.ToDTO()
	return &dto, nil
}

// Update rewrites all mutable fields of an existing member. The payload goes
// through the same validation gate as registration; registration_date and
// photo_key survive untouched.
func (s *memberService) Update(ctx context.Context, id int64, req member.RegisterRequest) (*member.MemberDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := req.ToMember()
	updated.ID = m.ID
	updated.PhotoKey = m.PhotoKey
	updated.RegistrationDate = m.RegistrationDate

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	dto := updated.ToDTO()
	return &dto, nil
}

func (s *memberService) Delete(ctx context.Context, id int64) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, m.ID); err != nil {
		return err
	}

	// Best effort; an orphaned object is recoverable by naming convention.
	if m.HasPhoto() {
		if err := s.storage.Delete(ctx, *m.PhotoKey); err != nil {
			logger.Warn("failed to delete photo object", map[string]interface{}{
				"member_id": m.ID,
				"key":       *m.PhotoKey,
				"error":     err.Error(),
			})
		}
	}

	return nil
}

func (s *memberService) List(ctx context.Context) ([]member.MemberDTO, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]member.MemberDTO, 0, len(members))
	for i := range members {
		dtos = append(dtos, members[i].ToDTO())
	}
	return dtos, nil
}

// AttachPhoto is the second registration step: derive the object key from the
// member's name and id, push the raw bytes to object storage, record the key.
func (s *memberService) AttachPhoto(ctx context.Context, id int64, filename string, data []byte, contentType string) (*member.MemberDTO, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, err := member.PhotoExtension(filename)
	if err != nil {
		return nil, err
	}

	key := member.PhotoObjectKey(m, ext)

	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	if _, err := s.storage.Upload(uploadCtx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", member.ErrPhotoUploadFailed, err)
	}

	// The object is in the bucket and recoverable by naming convention even
	// if recording the key fails, so this is not worth failing the request.
	if err := s.repo.SetPhotoKey(ctx, m.ID, key); err != nil {
		logger.Warn("failed to record photo key", map[string]interface{}{
			"member_id": m.ID,
			"key":       key,
			"error":     err.Error(),
		})
	}

	m.PhotoKey = &key
	dto := m.ToDTO()
	return &dto, nil
}
