// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/swifttravel/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Nil(t, slice.Map[string, string](nil, strings.ToUpper))
	assert.Equal(t, []int{1, 3}, slice.Map([]string{"a", "abc"}, func(s string) int { return len(s) }))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"food", "art"}, slice.Unique([]string{"food", "art", "food"}))

	empty := slice.Unique[string](nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
