package dalicore

import "errors"

// Sentinel errors returned by the bus, adapter and commissioning layers.
// Callers should compare with errors.Is, not direct equality, since these
// are commonly wrapped with call-site context.
var (
	// ErrFramingError indicates two or more gears responded simultaneously,
	// corrupting the reply at the bit level. During Compare this is a
	// meaningful "many" result, not a failure.
	ErrFramingError = errors.New("dalicore: framing error (collision)")

	// ErrSearchAddressClash indicates two gears share an identical 24-bit
	// search address; the commissioning outer loop must restart.
	ErrSearchAddressClash = errors.New("dalicore: search address clash")

	// ErrShortAddressDidNotStick indicates a ProgramShortAddress was not
	// confirmed by a subsequent QueryShortAddress.
	ErrShortAddressDidNotStick = errors.New("dalicore: short address did not stick")

	// ErrDeviceNotOpen indicates an operation was attempted against a
	// transceiver that has not been opened, or has already been closed.
	ErrDeviceNotOpen = errors.New("dalicore: device not open")

	// ErrInvalidFrameLength indicates a frame length outside {16, 24, 25}
	// bits was requested of the codec.
	ErrInvalidFrameLength = errors.New("dalicore: invalid frame length")

	// ErrProtocolDecode indicates an inbound adapter packet did not parse
	// into a recognised DALI message. The reader loop logs and continues;
	// it never tears down the transceiver for this error.
	ErrProtocolDecode = errors.New("dalicore: protocol decode error")

	// ErrAdapterIO indicates the adapter transport itself failed (as
	// opposed to a protocol-level decode failure). The reader loop closes
	// the transceiver and rejects all pending requests with this error.
	ErrAdapterIO = errors.New("dalicore: adapter I/O error")

	// ErrClosed is returned to any request still pending when the
	// transceiver is closed.
	ErrClosed = errors.New("dalicore: transceiver closed")
)
