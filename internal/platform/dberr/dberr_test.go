// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/swifttravel/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
	assert.ErrorIs(t, dberr.Wrap(pgx.ErrNoRows, "find"), dberr.ErrNotFound)
	assert.ErrorIs(t, dberr.Wrap(fmt.Errorf("scan: %w", pgx.ErrNoRows), "find"), dberr.ErrNotFound)

	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	wrapped := dberr.Wrap(unique, "postgres_user_repo_create_failed")
	assert.ErrorIs(t, wrapped, dberr.ErrUniqueViolation)
	assert.True(t, dberr.IsUniqueViolation(wrapped))

	other := errors.New("connection refused")
	wrapped = dberr.Wrap(other, "postgres_user_repo_find_failed")
	assert.ErrorIs(t, wrapped, other)
	assert.NotErrorIs(t, wrapped, dberr.ErrNotFound)
	assert.Contains(t, wrapped.Error(), "postgres_user_repo_find_failed")
}
