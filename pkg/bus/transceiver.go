// Package bus implements the DALI transceiver: the single-threaded
// scheduler loop, the reader goroutine, request/response correlation, and
// the commissioning engine built on top of them.
package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/go-dali/dalidrv/pkg/adapter"
	"github.com/go-dali/dalidrv/pkg/adapter/vendorhid"
	"github.com/go-dali/dalidrv/pkg/dalicore"
	daliaddr "github.com/go-dali/dalidrv/pkg/dalicore/addr"
	"github.com/go-dali/dalidrv/pkg/dalicore/command"
	"github.com/go-dali/dalidrv/pkg/dalicore/frame"
)

// Observer is notified of every decoded message, self-sent or external,
// after the loop goroutine has given the correlator first refusal at it.
type Observer func(dalicore.Message)

// Transceiver owns one open adapter connection plus all state that must be
// touched from a single goroutine: the correlator and the observer list.
// The logical gear/group model in pkg/gear is not part of that state. Every
// exported method is safe to call from any goroutine; internally each
// submits a closure to the loop goroutine and blocks on a private result
// channel.
type Transceiver struct {
	adapter adapter.Adapter
	logger  *log.Logger

	loopReq chan func()
	inbox   chan dalicore.Message
	stop    chan struct{}

	readerDone chan struct{}
	ioErr      chan error

	corr      *correlator
	observers []Observer

	closeOnce sync.Once
}

// Open starts a Transceiver over an already-connected Adapter: the loop
// goroutine and the dedicated reader goroutine per the concurrency model.
func Open(a adapter.Adapter, logger *log.Logger) *Transceiver {
	if logger == nil {
		logger = log.Default()
	}
	t := &Transceiver{
		adapter:    a,
		logger:     logger.With("component", "bus", "serial", a.Serial()),
		loopReq:    make(chan func()),
		inbox:      make(chan dalicore.Message, 64),
		stop:       make(chan struct{}),
		readerDone: make(chan struct{}),
		ioErr:      make(chan error, 1),
		corr:       newCorrelator(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	go t.loop(ctx, cancel)
	go t.readLoop(ctx)
	return t
}

// UniqueID identifies this transceiver stably across process restarts, the
// same way tridonic-usb-<serial> does in the source this driver descends
// from.
func (t *Transceiver) UniqueID() string {
	return fmt.Sprintf("vendorhid-%s", t.adapter.Serial())
}

// AddObserver registers fn to be called with every decoded message. fn runs
// on the loop goroutine and must not block.
func (t *Transceiver) AddObserver(fn Observer) {
	t.submit(func() { t.observers = append(t.observers, fn) })
}

func (t *Transceiver) loop(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	for {
		select {
		case fn := <-t.loopReq:
			fn()
		case msg := <-t.inbox:
			t.corr.resolve(msg)
			for _, obs := range t.observers {
				obs(msg)
			}
		case err := <-t.ioErr:
			t.logger.Error("closing after adapter I/O error", "error", err)
			t.closeLocked(dalicore.ErrAdapterIO)
			return
		case <-t.stop:
			t.closeLocked(dalicore.ErrClosed)
			return
		}
	}
}

// submit runs fn on the loop goroutine and waits for it to finish.
func (t *Transceiver) submit(fn func()) {
	done := make(chan struct{})
	select {
	case t.loopReq <- func() { fn(); close(done) }:
		<-done
	case <-t.stop:
	}
}

func (t *Transceiver) closeLocked(err error) {
	t.corr.closeAll(err)
}

// Close stops the reader goroutine, closes the adapter, and rejects every
// pending request with ErrClosed.
func (t *Transceiver) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stop)
		<-t.readerDone
		err = t.adapter.Close()
	})
	return err
}

// sendFrame writes f to the adapter with the given repeat count and returns
// a channel that will carry the eventual correlated result.
func (t *Transceiver) sendFrame(ctx context.Context, f frame.Frame, repeat int) (chan requestResult, error) {
	var (
		resultCh chan requestResult
		seq      uint8
		pendErr  error
	)
	t.submit(func() {
		var req *pendingRequest
		seq, req = t.corr.allocate()
		resultCh = req.resultCh

		length := int(f.Length)
		pkt, err := vendorhid.EncodeOutbound(seq, length, f.Value, repeat)
		if err != nil {
			pendErr = err
			t.corr.cancel(seq)
			return
		}
		if err := t.adapter.WritePacket(ctx, pkt); err != nil {
			pendErr = fmt.Errorf("%w: %v", dalicore.ErrAdapterIO, err)
			t.corr.cancel(seq)
		}
	})
	if pendErr != nil {
		return nil, pendErr
	}
	return resultCh, nil
}

// Result is the outcome of a bus send: Present is false for a NAK ("no gear
// answered", valid for queries), true with Value populated for a numeric
// response.
type Result struct {
	Present bool
	Value   uint8
}

func (t *Transceiver) await(ctx context.Context, resultCh chan requestResult) (Result, error) {
	select {
	case r := <-resultCh:
		if r.err != nil {
			return Result{}, r.err
		}
		return Result{Present: r.ok, Value: r.value}, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// SendCmd sends a standard addressed command and awaits its correlated
// result.
func (t *Transceiver) SendCmd(ctx context.Context, a daliaddr.Address, cmd command.Code, repeat int) (Result, error) {
	resultCh, err := t.sendFrame(ctx, frame.AddressedCommand(a, cmd), repeat)
	if err != nil {
		return Result{}, err
	}
	return t.await(ctx, resultCh)
}

// SendDirectArcPower sets a's level directly.
func (t *Transceiver) SendDirectArcPower(ctx context.Context, a daliaddr.Address, level uint8) (Result, error) {
	resultCh, err := t.sendFrame(ctx, frame.DirectArcPower(a, level), 1)
	if err != nil {
		return Result{}, err
	}
	return t.await(ctx, resultCh)
}

// SendSpecialCmd sends a special (commissioning-space) command.
func (t *Transceiver) SendSpecialCmd(ctx context.Context, code command.SpecialCode, operand uint8, repeat int) (Result, error) {
	resultCh, err := t.sendFrame(ctx, frame.SpecialCommand(code, operand), repeat)
	if err != nil {
		return Result{}, err
	}
	return t.await(ctx, resultCh)
}

// Broadcast sends cmd to every gear on the bus.
func (t *Transceiver) Broadcast(ctx context.Context, cmd command.Code, repeat int) (Result, error) {
	return t.SendCmd(ctx, daliaddr.NewBroadcast(), cmd, repeat)
}

// StartQuiescent and StopQuiescent send the 25-bit frames that start and
// stop quiescent mode, suppressing application-layer traffic on the bus.
// Commission does not send them itself.
func (t *Transceiver) StartQuiescent(ctx context.Context) error {
	resultCh, err := t.sendFrame(ctx, frame.StartQuiescent(), 2)
	if err != nil {
		return err
	}
	_, err = t.await(ctx, resultCh)
	return err
}

func (t *Transceiver) StopQuiescent(ctx context.Context) error {
	resultCh, err := t.sendFrame(ctx, frame.StopQuiescent(), 2)
	if err != nil {
		return err
	}
	_, err = t.await(ctx, resultCh)
	return err
}
