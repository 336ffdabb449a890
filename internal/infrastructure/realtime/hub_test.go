package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu      sync.Mutex
	written []any
	failOn  error
	closed  bool
	writing bool
	overlap bool
}

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	if f.writing {
		f.overlap = true
	}
	f.writing = true
	f.mu.Unlock()

	time.Sleep(time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.writing = false
	if f.failOn != nil {
		return f.failOn
	}
	f.written = append(f.written, v)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.written)
}

func TestBroadcastToUser_AllConnectionsOfUser(t *testing.T) {
	h := NewHub(time.Second)
	phone, laptop, other := &fakeConn{}, &fakeConn{}, &fakeConn{}
	h.Register("u1", phone)
	h.Register("u1", laptop)
	h.Register("u2", other)

	n, err := h.BroadcastToUser(context.Background(), "u1", map[string]string{"id": "n1"})
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, 1, phone.count())
	assert.Equal(t, 1, laptop.count())
	assert.Equal(t, 0, other.count())
}

func TestBroadcastToUser_NoConnections(t *testing.T) {
	h := NewHub(time.Second)
	n, err := h.BroadcastToUser(context.Background(), "ghost", "x")
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBroadcastToUser_FailedConnectionDropped(t *testing.T) {
	h := NewHub(time.Second)
	good, bad := &fakeConn{}, &fakeConn{failOn: errors.New("broken pipe")}
	h.Register("u1", good)
	h.Register("u1", bad)

	n, err := h.BroadcastToUser(context.Background(), "u1", "x")
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, h.Count("u1"))
	assert.True(t, bad.closed)
	assert.False(t, good.closed)
}

func TestUnregister(t *testing.T) {
	h := NewHub(time.Second)
	c := &fakeConn{}
	id := h.Register("u1", c)

	h.Unregister("u1", id)
	assert.Equal(t, 0, h.Count("u1"))
	assert.True(t, c.closed)

	assert.NotPanics(t, func() { h.Unregister("u1", id) })
}

func TestBroadcast_WritesToOneConnectionAreSerialized(t *testing.T) {
	h := NewHub(time.Second)
	c := &fakeConn{}
	h.Register("u1", c)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.BroadcastToUser(context.Background(), "u1", i)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, c.count())
	assert.False(t, c.overlap)
}

func TestCloseAll(t *testing.T) {
	h := NewHub(time.Second)
	a, b := &fakeConn{}, &fakeConn{}
	h.Register("u1", a)
	h.Register("u2", b)

	h.CloseAll()
	assert.True(t, a.closed)
	assert.True(t, b.closed)
	assert.Equal(t, 0, h.Count("u1"))
}
