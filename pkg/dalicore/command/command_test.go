package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasSideEffects(t *testing.T) {
	assert.True(t, Off.HasSideEffects())
	assert.True(t, Reset.HasSideEffects())
	assert.False(t, QueryActualLevel.HasSideEffects())
	assert.False(t, QueryStatus.HasSideEffects())
}

func TestGroupCodes(t *testing.T) {
	assert.Equal(t, Code(0x63), AddToGroupCode(3))
	assert.Equal(t, Code(0x73), RemoveFromGroupCode(3))
	// group number is masked to 4 bits
	assert.Equal(t, AddToGroupCode(1), AddToGroupCode(17))
}
