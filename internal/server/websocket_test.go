package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ecosim/internal/core/system"
)

func dialFeed(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(url, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) system.Snapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var snap system.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	return snap
}

func TestWebSocketFeed(t *testing.T) {
	feed := NewFeedServer(Config{}, nil)
	feed.Publish(testSnapshot(1))

	s := httptest.NewServer(feed.Handler())
	defer s.Close()

	conn := dialFeed(t, s.URL)
	first := readSnapshot(t, conn)
	require.Equal(t, uint64(1), first.Tick, "latest snapshot is sent on connect")

	require.Eventually(t, func() bool { return feed.GetStats().Clients == 1 }, time.Second, 10*time.Millisecond)

	feed.Publish(testSnapshot(2))
	second := readSnapshot(t, conn)
	require.Equal(t, uint64(2), second.Tick)
	require.Len(t, second.Hazards, 2)
}

func TestWebSocketClientDisconnect(t *testing.T) {
	feed := NewFeedServer(Config{}, nil)
	s := httptest.NewServer(feed.Handler())
	defer s.Close()

	conn := dialFeed(t, s.URL)
	require.Eventually(t, func() bool { return feed.GetStats().Clients == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return feed.GetStats().Clients == 0 }, time.Second, 10*time.Millisecond)
}

func TestSlowClientDropsSnapshots(t *testing.T) {
	feed := NewFeedServer(Config{SendBuffer: 1}, nil)
	c := &feedClient{id: "slow", send: make(chan []byte, 1), done: make(chan struct{})}
	feed.clients[c.id] = c

	data, err := json.Marshal(testSnapshot(1))
	require.NoError(t, err)
	feed.broadcast(data)
	feed.broadcast(data)
	feed.broadcast(data)

	require.Equal(t, uint64(2), feed.GetStats().Dropped)
	require.Len(t, c.send, 1)
}
