package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-dali/dalidrv/pkg/dalicore"
)

func TestCorrelatorAllocateWrapsAndSkipsZero(t *testing.T) {
	c := newCorrelator()
	c.nextSeq = 255
	seq, _ := c.allocate()
	assert.Equal(t, uint8(255), seq)
	assert.Equal(t, uint8(1), c.nextSeq)
}

func TestCorrelatorResolveNumericResponse(t *testing.T) {
	c := newCorrelator()
	seq, req := c.allocate()

	c.resolve(dalicore.Message{Seq: seq, MsgKind: dalicore.KindNumericResponse, Value: 254})

	res := <-req.resultCh
	require.True(t, res.ok)
	assert.Equal(t, uint8(254), res.value)
	assert.NoError(t, res.err)
	_, stillPending := c.pending[seq]
	assert.False(t, stillPending)
}

func TestCorrelatorResolveNAK(t *testing.T) {
	c := newCorrelator()
	seq, req := c.allocate()

	c.resolve(dalicore.Message{Seq: seq, MsgKind: dalicore.KindNAK})

	res := <-req.resultCh
	assert.False(t, res.ok)
	assert.NoError(t, res.err)
}

func TestCorrelatorResolveFramingErrorRejects(t *testing.T) {
	c := newCorrelator()
	seq, req := c.allocate()

	c.resolve(dalicore.Message{Seq: seq, MsgKind: dalicore.KindFramingError})

	res := <-req.resultCh
	assert.ErrorIs(t, res.err, dalicore.ErrFramingError)
}

func TestCorrelatorIgnoresTransmitComplete(t *testing.T) {
	c := newCorrelator()
	seq, _ := c.allocate()

	c.resolve(dalicore.Message{Seq: seq, MsgKind: dalicore.KindTransmitComplete})

	_, stillPending := c.pending[seq]
	assert.True(t, stillPending)
}

func TestCorrelatorCancelledRequestDropsResult(t *testing.T) {
	c := newCorrelator()
	seq, req := c.allocate()
	c.cancel(seq)

	c.resolve(dalicore.Message{Seq: seq, MsgKind: dalicore.KindNumericResponse, Value: 1})

	assert.Len(t, req.resultCh, 0)
}

func TestCorrelatorCloseAllRejectsPending(t *testing.T) {
	c := newCorrelator()
	_, req1 := c.allocate()
	_, req2 := c.allocate()

	c.closeAll(dalicore.ErrClosed)

	assert.ErrorIs(t, (<-req1.resultCh).err, dalicore.ErrClosed)
	assert.ErrorIs(t, (<-req2.resultCh).err, dalicore.ErrClosed)
	assert.Empty(t, c.pending)
}
