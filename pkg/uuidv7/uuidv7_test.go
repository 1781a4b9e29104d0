// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuidv7_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/daybook/pkg/uuidv7"
)

func TestNew(t *testing.T) {
	first, second := uuidv7.New(), uuidv7.New()
	assert.NotEqual(t, first, second)

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestIsValid(t *testing.T) {
	assert.True(t, uuidv7.IsValid(uuidv7.New()))
	assert.True(t, uuidv7.IsValid("0190a0c0-0000-7000-8000-000000000001"))
	assert.False(t, uuidv7.IsValid("groceries"))
	assert.False(t, uuidv7.IsValid(""))
}
