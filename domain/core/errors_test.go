package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadErrorWrapping(t *testing.T) {
	err := NewLoadError("http://example.com/a.csv", errors.New("connection refused"))
	assert.True(t, IsLoadError(err))
	assert.Contains(t, err.Error(), "connection refused")

	// Already-classified causes keep their specific sentinel.
	inner := fmt.Errorf("%w: row 3 has 2 fields, want 4", ErrMalformed)
	err = NewLoadError("fixture.csv", inner)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.True(t, IsLoadError(err))
	assert.True(t, IsLoadError(ErrMissingHeader))
}

func TestQueryErrors(t *testing.T) {
	err := NewInvalidRangeError("Age", 50, 10)
	assert.True(t, IsInvalidRangeError(err))
	assert.False(t, IsLoadError(err))
	assert.Equal(t, "invalid range for Age: low 50 > high 10", err.Error())

	assert.True(t, IsUnknownColumnError(NewUnknownColumnError("Cabin")))
	assert.True(t, errors.Is(NewColumnTypeError("Sex", "numeric", "categorical"), ErrColumnType))
}
