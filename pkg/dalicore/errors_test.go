package dalicore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("adapter: %w", ErrAdapterIO)
	assert.ErrorIs(t, wrapped, ErrAdapterIO)
	assert.False(t, errors.Is(wrapped, ErrClosed))
}
