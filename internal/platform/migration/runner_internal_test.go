// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/swift", "pgx5://u:p@localhost:5432/swift"},
		{"postgresql://localhost/swift", "pgx5://localhost/swift"},
		{"pgx5://localhost/swift", "pgx5://localhost/swift"},
		{"host=localhost dbname=swift", "host=localhost dbname=swift"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
		})
	}
}

func TestRunDown_RejectsNonPositiveSteps(t *testing.T) {
	err := RunDown("postgres://localhost/swift", "./data/migrations", 0, slog.Default())
	assert.Error(t, err)
}
