package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct{ serial string }

func (s *stubAdapter) WritePacket(ctx context.Context, pkt []byte) error { return nil }
func (s *stubAdapter) ReadPacket(ctx context.Context) ([]byte, error)    { return nil, nil }
func (s *stubAdapter) Serial() string                                   { return s.serial }
func (s *stubAdapter) Close() error                                     { return nil }

func TestRegistryOpenDispatchesToRegisteredOpener(t *testing.T) {
	r := NewRegistry()
	r.Register(0x17b5, 0x0020, func() ([]Identity, error) {
		return []Identity{{Vendor: 0x17b5, Product: 0x0020, Serial: "abc"}}, nil
	}, func(id Identity) (Adapter, error) {
		return &stubAdapter{serial: id.Serial}, nil
	})

	a, err := r.Open(Identity{Vendor: 0x17b5, Product: 0x0020, Serial: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", a.Serial())
}

func TestRegistryOpenUnknownVendorProduct(t *testing.T) {
	r := NewRegistry()
	_, err := r.Open(Identity{Vendor: 1, Product: 2})
	assert.ErrorIs(t, err, ErrNoOpener)
}

func TestRegistryEnumerateComputesDelta(t *testing.T) {
	r := NewRegistry()
	r.Register(1, 1, func() ([]Identity, error) {
		return []Identity{{Vendor: 1, Product: 1, Serial: "new"}}, nil
	}, nil)

	seen := map[string]Identity{"gone": {Vendor: 1, Product: 1, Serial: "gone"}}
	delta, current, err := r.Enumerate(seen)
	require.NoError(t, err)

	require.Len(t, delta.Added, 1)
	assert.Equal(t, "new", delta.Added[0].Serial)
	require.Len(t, delta.Removed, 1)
	assert.Equal(t, "gone", delta.Removed[0].Serial)
	assert.Contains(t, current, "new")
}
