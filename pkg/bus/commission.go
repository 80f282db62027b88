package bus

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-dali/dalidrv/pkg/dalicore"
	"github.com/go-dali/dalidrv/pkg/dalicore/command"
)

// searchAddressSender only retransmits the H/M/L search-address bytes that
// changed since its last call, per the optimisation named in the commission
// engine design: the initial state is "unknown" so the first call always
// sends all three.
type searchAddressSender struct {
	t                      *Transceiver
	lastH, lastM, lastL    uint8
	haveH, haveM, haveL    bool
}

func newSearchAddressSender(t *Transceiver) *searchAddressSender {
	return &searchAddressSender{t: t}
}

func (s *searchAddressSender) send(ctx context.Context, search uint32) error {
	l := uint8(search)
	m := uint8(search >> 8)
	h := uint8(search >> 16)

	if !s.haveL || l != s.lastL {
		if _, err := s.t.SendSpecialCmd(ctx, command.SearchAddrL, l, 1); err != nil {
			return err
		}
		s.lastL, s.haveL = l, true
	}
	if !s.haveM || m != s.lastM {
		if _, err := s.t.SendSpecialCmd(ctx, command.SearchAddrM, m, 1); err != nil {
			return err
		}
		s.lastM, s.haveM = m, true
	}
	if !s.haveH || h != s.lastH {
		if _, err := s.t.SendSpecialCmd(ctx, command.SearchAddrH, h, 1); err != nil {
			return err
		}
		s.lastH, s.haveH = h, true
	}
	return nil
}

// compareResult is the 3-valued outcome of a Compare special command.
type compareResult int

const (
	compareNone compareResult = iota
	compareOne
	compareMany
)

// compare sends the given search address and issues Compare, classifying
// the reply per the commissioning engine design: NAK means none, a 0xFF
// response means exactly one, and a framing error means two or more gears
// have a search address at or below search.
func (t *Transceiver) compare(ctx context.Context, search uint32, sender *searchAddressSender) (compareResult, error) {
	if err := sender.send(ctx, search); err != nil {
		return compareNone, err
	}
	res, err := t.SendSpecialCmd(ctx, command.Compare, 0, 1)
	if err != nil {
		if errors.Is(err, dalicore.ErrFramingError) {
			return compareMany, nil
		}
		return compareNone, err
	}
	if !res.Present {
		return compareNone, nil
	}
	if res.Value == 0xFF {
		return compareOne, nil
	}
	return compareNone, fmt.Errorf("bus: illegal Compare response 0x%02X", res.Value)
}

// searchLowestGear performs the binary search over the 24-bit search-address
// space described in the commissioning engine design, returning the lowest
// participating search address at or above floor, or (0, false, nil) if no
// gear remains.
func (t *Transceiver) searchLowestGear(ctx context.Context, floor uint32) (uint32, bool, error) {
	low, high := floor, uint32(0xFFFFFF)
	sender := newSearchAddressSender(t)

	for {
		mid := low + (high-low)/2
		res, err := t.compare(ctx, mid, sender)
		if err != nil {
			return 0, false, err
		}

		if low == high {
			switch res {
			case compareOne:
				return mid, true, nil
			case compareMany:
				return 0, false, dalicore.ErrSearchAddressClash
			default:
				return 0, false, nil
			}
		}

		if res == compareNone {
			low = mid + 1
		} else {
			high = mid
		}
	}
}

// CommissionResult summarises one completed commissioning run.
type CommissionResult struct {
	Assigned map[uint32]uint8 // search address -> short address
}

// Commission runs the full DALI commissioning protocol: it puts all gears
// into initialisation mode, clears any existing short addresses and group
// memberships, randomises search addresses, then repeatedly finds and
// allocates the lowest remaining search address until none respond.
func (t *Transceiver) Commission(ctx context.Context) (*CommissionResult, error) {
	if _, err := t.SendSpecialCmd(ctx, command.Terminate, 0, 1); err != nil {
		return nil, err
	}

	result := &CommissionResult{Assigned: make(map[uint32]uint8)}
	defer t.SendSpecialCmd(ctx, command.Terminate, 0, 1)

	if _, err := t.SendSpecialCmd(ctx, command.Initialise, 0, 2); err != nil {
		return nil, err
	}

	if _, err := t.SendSpecialCmd(ctx, command.SetDTR0, 0xFF, 1); err != nil {
		return nil, err
	}
	if _, err := t.Broadcast(ctx, command.SetShortAddress, 2); err != nil {
		return nil, err
	}

	if _, err := t.SendSpecialCmd(ctx, command.SetDTR0, 128, 1); err != nil {
		return nil, err
	}
	if _, err := t.Broadcast(ctx, command.SetOperatingMode, 2); err != nil {
		return nil, err
	}

	for g := uint8(0); g < 16; g++ {
		if _, err := t.Broadcast(ctx, command.RemoveFromGroupCode(g), 2); err != nil {
			return nil, err
		}
	}

	if _, err := t.SendSpecialCmd(ctx, command.Randomise, 0, 2); err != nil {
		return nil, err
	}
	if err := sleep(ctx, randomiseSettleDelay); err != nil {
		return nil, err
	}

	available := make([]uint8, 64)
	for i := range available {
		available[i] = uint8(i)
	}

	var searchFloor uint32
	for {
		found, ok, err := t.searchLowestGear(ctx, searchFloor)
		if errors.Is(err, dalicore.ErrSearchAddressClash) {
			searchFloor = 0
			continue
		}
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		if len(available) == 0 {
			return nil, fmt.Errorf("bus: commissioning found more than 64 gears")
		}
		short := available[0]
		available = available[1:]
		shifted := (short << 1) | 0x01

		if _, err := t.SendSpecialCmd(ctx, command.ProgramShortAddress, shifted, 1); err != nil {
			return nil, err
		}
		queried, err := t.SendSpecialCmd(ctx, command.QueryShortAddress, 0, 1)
		if err != nil {
			return nil, err
		}
		if !queried.Present || queried.Value != shifted {
			return nil, dalicore.ErrShortAddressDidNotStick
		}
		if _, err := t.SendSpecialCmd(ctx, command.Withdraw, 0, 1); err != nil {
			return nil, err
		}

		result.Assigned[found] = short
		searchFloor = found + 1
	}

	return result, nil
}
