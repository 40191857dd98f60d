package registry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/flpflJ/crypto-chat/internal/chat/model"
	"github.com/flpflJ/crypto-chat/internal/metrics"
)

type fakeConn struct {
	delivered []model.Message
	closed    bool
}

func (f *fakeConn) Deliver(msg model.Message) error {
	f.delivered = append(f.delivered, msg)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func newTestRegistry() *Registry {
	return New(metrics.New(prometheus.NewRegistry()))
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := newTestRegistry()
	conn := &fakeConn{}

	displaced := r.Register("alice", conn)
	assert.Nil(t, displaced)

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, conn, got.(*fakeConn))

	_, ok = r.Lookup("bob")
	assert.False(t, ok)
}

func TestRegistry_ReplaceOnReregister(t *testing.T) {
	r := newTestRegistry()
	first := &fakeConn{}
	second := &fakeConn{}

	assert.Nil(t, r.Register("alice", first))
	displaced := r.Register("alice", second)
	assert.Same(t, first, displaced.(*fakeConn))

	// lookup resolves to the second channel only
	got, ok := r.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, second, got.(*fakeConn))
	assert.Equal(t, 1, r.Len())

	got.Deliver(model.Message{Text: "hi"})
	assert.Len(t, second.delivered, 1)
	assert.Empty(t, first.delivered)
}

func TestRegistry_DeregisterSameInstanceOnly(t *testing.T) {
	r := newTestRegistry()
	stale := &fakeConn{}
	fresh := &fakeConn{}

	r.Register("alice", stale)
	r.Register("alice", fresh)

	// stale channel's late cleanup must not evict the fresh registration
	r.Deregister("alice", stale)
	got, ok := r.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, fresh, got.(*fakeConn))

	r.Deregister("alice", fresh)
	_, ok = r.Lookup("alice")
	assert.False(t, ok)

	// idempotent
	r.Deregister("alice", fresh)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_DeregisterUnknownIdentity(t *testing.T) {
	r := newTestRegistry()
	assert.NotPanics(t, func() { r.Deregister("ghost", &fakeConn{}) })
}
