package feed

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) simulation.Snapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var s simulation.Snapshot
	require.NoError(t, conn.ReadJSON(&s))
	return s
}

func testSnapshot(t *testing.T) *simulation.Snapshot {
	t.Helper()
	w, err := simulation.NewWorld(nil, nil)
	require.NoError(t, err)
	return w.Snapshot()
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	want := testSnapshot(t)
	require.NoError(t, hub.Broadcast(want))

	got := readSnapshot(t, conn)
	assert.Equal(t, want.Clock, got.Clock)
	assert.Len(t, got.Walls, len(want.Walls))
	assert.Len(t, got.Items, len(want.Items))
	assert.Equal(t, want.Digest(), got.Digest())
}

func TestHub_LateJoinerGetsLatest(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	want := testSnapshot(t)
	require.NoError(t, hub.Broadcast(want))

	conn := dial(t, srv)
	defer conn.Close()

	got := readSnapshot(t, conn)
	assert.Equal(t, want.Digest(), got.Digest())
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_Run(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	snapshots := make(chan *simulation.Snapshot, 1)
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx, snapshots) }()

	snapshots <- testSnapshot(t)
	got := readSnapshot(t, conn)
	assert.Equal(t, uint64(0), got.Clock)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, 0, hub.Len())
}
