// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/swifttravel/internal/platform/database/schema"
	"github.com/taibuivan/swifttravel/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx and scany.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var (
	selectUserByEmail = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Users.SelectList(), schema.Users.Table, schema.Users.Email)

	selectUserByID = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Users.SelectList(), schema.Users.Table, schema.Users.ID)

	insertUser = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		schema.Users.Table,
		schema.Users.ID, schema.Users.Email, schema.Users.Name,
		schema.Users.Preferences, schema.Users.CreatedAt, schema.Users.LastActiveAt,
		schema.Users.SelectList())

	updateUser = fmt.Sprintf(`
		UPDATE %[1]s SET
			%[2]s = CASE WHEN $2::boolean THEN NULLIF($3::text, '') ELSE %[2]s END,
			%[3]s = COALESCE($4::jsonb, %[3]s),
			%[4]s = COALESCE($5::timestamptz, %[4]s)
		WHERE %[5]s = $1
		RETURNING %[6]s`,
		schema.Users.Table,
		schema.Users.Name, schema.Users.Preferences, schema.Users.LastActiveAt,
		schema.Users.ID, schema.Users.SelectList())
)

/*
FindByEmail retrieves a user by their unique, normalized email address.

Returns:
  - *User: Hydrated entity
  - error: [ErrUserNotFound] or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.getOne(ctx, "postgres_user_repo_find_by_email_failed", selectUserByEmail, email)
}

/*
FindByID retrieves a user by primary key.

Returns:
  - *User: Hydrated entity
  - error: [ErrUserNotFound] or database errors
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.getOne(ctx, "postgres_user_repo_find_by_id_failed", selectUserByID, id)
}

/*
Create inserts a new user and returns the stored row.

Description: A concurrent sign-in for the same email may win the race; the
unique index then rejects this insert and [ErrUserExists] is returned so the
caller can re-read the winner's row.

Returns:
  - *User: Stored entity
  - error: [ErrUserExists] or database errors
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) (*User, error) {
	created := &User{}
	err := pgxscan.Get(ctx, repository.pool, created, insertUser,
		user.ID,
		user.Email,
		user.Name,
		user.Preferences,
		user.CreatedAt,
		user.LastActiveAt,
	)
	if err != nil {
		wrapped := dberr.Wrap(err, "postgres_user_repo_create_failed")
		if errors.Is(wrapped, dberr.ErrUniqueViolation) {
			return nil, fmt.Errorf("%w: %w", ErrUserExists, wrapped)
		}
		return nil, wrapped
	}

	return created, nil
}

/*
Update applies a partial update in a single statement.

Returns:
  - *User: Updated entity
  - error: [ErrUserNotFound] or database errors
*/
func (repository *PostgresUserRepository) Update(ctx context.Context, id string, update UserUpdate) (*User, error) {
	return repository.getOne(ctx, "postgres_user_repo_update_failed", updateUser,
		id,
		update.Name != nil,
		update.Name,
		update.Preferences,
		update.LastActiveAt,
	)
}

// getOne scans exactly one row into a [User], mapping a missing row to [ErrUserNotFound].
func (repository *PostgresUserRepository) getOne(ctx context.Context, action, query string, args ...any) (*User, error) {
	user := &User{}
	if err := pgxscan.Get(ctx, repository.pool, user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrUserNotFound
		}
		wrapped := dberr.Wrap(err, action)
		if errors.Is(wrapped, dberr.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrapped
	}
	return user, nil
}
