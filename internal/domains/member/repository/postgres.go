package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"membership-backend/internal/domains/member"
	"membership-backend/pkg/cache"
)

const (
	memberCacheTTL = 15 * time.Minute

	// SQLSTATE for unique_violation; the members_email_key constraint.
	uniqueViolation = "23505"
)

// postgresRepository is the concrete member.Repository over pgx. Hidden
// behind the interface so tests can swap in fakes.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) member.Repository {
	return &postgresRepository{pool: pool, cache: c}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("member:%d", id)
}

func (r *postgresRepository) Create(ctx context.Context, m *member.Member) (int64, error) {
	query := `
		INSERT INTO members (
			title, first_name, middle_name, last_name, address,
			email, gender, birth_date, phone, country,
			registration_date
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11
		)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		m.Title,
		m.FirstName,
		m.MiddleName,
		m.LastName,
		m.Address,
		m.Email,
		m.Gender,
		m.BirthDate,
		m.Phone,
		m.Country,
		m.RegistrationDate,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, member.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("create member: %w", err)
	}

	return id, nil
}

// FindByID is cache-aside: check redis, fall through to postgres, populate
// on the way out. A cache failure never fails the read.
func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*member.Member, error) {
	key := cacheKey(id)

	var m member.Member
	if found, err := r.cache.Get(ctx, key, &m); err == nil && found {
		return &m, nil
	}

	query := `
		SELECT
			id, title, first_name, middle_name, last_name, address,
			email, gender, birth_date, phone, country,
			photo_key, registration_date
		FROM members
		WHERE id = $1
	`

	if err := r.scanMember(r.pool.QueryRow(ctx, query, id), &m); err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, key, &m, memberCacheTTL)

	return &m, nil
}

// FindByEmail backs the duplicate guard. Not cached: the lookup happens once
// per registration attempt and staleness here would weaken the guard.
func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	query := `
		SELECT
			id, title, first_name, middle_name, last_name, address,
			email, gender, birth_date, phone, country,
			photo_key, registration_date
		FROM members
		WHERE email = $1
	`

	var m member.Member
	if err := r.scanMember(r.pool.QueryRow(ctx, query, email), &m); err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *postgresRepository) Update(ctx context.Context, m *member.Member) error {
	// registration_date is write-once and deliberately absent here.
	query := `
		UPDATE members
		SET
			title = $2,
			first_name = $3,
			middle_name = $4,
			last_name = $5,
			address = $6,
			email = $7,
			gender = $8,
			birth_date = $9,
			phone = $10,
			country = $11
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		m.ID,
		m.Title,
		m.FirstName,
		m.MiddleName,
		m.LastName,
		m.Address,
		m.Email,
		m.Gender,
		m.BirthDate,
		m.Phone,
		m.Country,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return member.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return member.ErrMemberNotFound
	}

	_ = r.cache.Delete(ctx, cacheKey(m.ID))

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return member.ErrMemberNotFound
	}

	_ = r.cache.Delete(ctx, cacheKey(id))

	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]member.Member, error) {
	query := `
		SELECT
			id, title, first_name, middle_name, last_name, address,
			email, gender, birth_date, phone, country,
			photo_key, registration_date
		FROM members
		ORDER BY registration_date
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []member.Member
	for rows.Next() {
		var m member.Member
		if err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.FirstName,
			&m.MiddleName,
			&m.LastName,
			&m.Address,
			&m.Email,
			&m.Gender,
			&m.BirthDate,
			&m.Phone,
			&m.Country,
			&m.PhotoKey,
			&m.RegistrationDate,
		); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return members, nil
}

func (r *postgresRepository) SetPhotoKey(ctx context.Context, id int64, key string) error {
	result, err := r.pool.Exec(ctx, `UPDATE members SET photo_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("set photo key: %w", err)
	}

	if result.RowsAffected() == 0 {
		return member.ErrMemberNotFound
	}

	_ = r.cache.Delete(ctx, cacheKey(id))

	return nil
}

func (r *postgresRepository) scanMember(row pgx.Row, m *member.Member) error {
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.FirstName,
		&m.MiddleName,
		&m.LastName,
		&m.Address,
		&m.Email,
		&m.Gender,
		&m.BirthDate,
		&m.Phone,
		&m.Country,
		&m.PhotoKey,
		&m.RegistrationDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return member.ErrMemberNotFound
	}
	if err != nil {
		return fmt.Errorf("scan member: %w", err)
	}
	return nil
}
