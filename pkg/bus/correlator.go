package bus

import "github.com/go-dali/dalidrv/pkg/dalicore"

// pendingRequest is one outstanding send awaiting correlation by sequence
// number. The entry is removed from the table once resolved or rejected;
// cancelled marks a request whose send failed, so a late-arriving response
// is discarded rather than delivered into a channel nobody is reading.
type pendingRequest struct {
	resultCh  chan requestResult
	cancelled bool
}

type requestResult struct {
	value uint8
	ok    bool // true if a gear answered (NumericResponse); false for NAK ("none")
	err   error
}

// correlator owns the sequence-number counter and the outstanding-request
// table. It is only ever touched from the transceiver's loop goroutine, so
// it needs no locking of its own.
type correlator struct {
	nextSeq  uint8
	pending  map[uint8]*pendingRequest
}

func newCorrelator() *correlator {
	return &correlator{nextSeq: 1, pending: make(map[uint8]*pendingRequest)}
}

// allocate returns a fresh sequence number (wrapping 1..255, 0 reserved) and
// registers a pending request for it.
func (c *correlator) allocate() (uint8, *pendingRequest) {
	seq := c.nextSeq
	c.nextSeq++
	if c.nextSeq == 0 {
		c.nextSeq = 1
	}
	req := &pendingRequest{resultCh: make(chan requestResult, 1)}
	c.pending[seq] = req
	return seq, req
}

// cancel marks a pending request as cancelled without removing it; removal
// happens naturally the next time a message for that sequence arrives, or at
// closeAll time.
func (c *correlator) cancel(seq uint8) {
	if req, ok := c.pending[seq]; ok {
		req.cancelled = true
	}
}

// resolve delivers msg's outcome to the pending request for its sequence
// number, if any, per the resolution rules in the correlator design: a
// numeric response resolves with a value, a NAK resolves with "none", a
// framing error rejects, anything else leaves the request pending.
func (c *correlator) resolve(msg dalicore.Message) {
	req, ok := c.pending[msg.Seq]
	if !ok {
		return
	}
	switch msg.MsgKind {
	case dalicore.KindNumericResponse:
		delete(c.pending, msg.Seq)
		if !req.cancelled {
			req.resultCh <- requestResult{value: msg.Value, ok: true}
		}
	case dalicore.KindNAK:
		delete(c.pending, msg.Seq)
		if !req.cancelled {
			req.resultCh <- requestResult{ok: false}
		}
	case dalicore.KindFramingError:
		delete(c.pending, msg.Seq)
		if !req.cancelled {
			req.resultCh <- requestResult{err: dalicore.ErrFramingError}
		}
	default:
		// Transmit-complete echoes and other informational types never
		// resolve a pending request; per design, they fall through here.
	}
}

// closeAll rejects every still-pending request with err, used when the
// transceiver shuts down.
func (c *correlator) closeAll(err error) {
	for seq, req := range c.pending {
		if !req.cancelled {
			req.resultCh <- requestResult{err: err}
		}
		delete(c.pending, seq)
	}
}
