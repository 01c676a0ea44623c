package errors

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeError(t *testing.T) {
	err := Wrap(NewShapeError("strike", 3, 5), "pricing")

	assert.ErrorIs(t, err, ErrShapeMismatch)
	var shapeErr *ShapeError
	assert.True(t, As(err, &shapeErr))
	assert.Equal(t, "strike", shapeErr.Field)
	assert.Contains(t, err.Error(), "strike")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("vol", nil, "required")
	assert.True(t, Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "vol")
}

func TestStoreError(t *testing.T) {
	err := Wrapf(NewStoreError("get run", sql.ErrConnDone), "run %s", "run_1")

	assert.ErrorIs(t, err, ErrDatabaseError)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "run_1")
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "nothing"))
	assert.NoError(t, Wrapf(nil, "nothing %d", 1))
}
