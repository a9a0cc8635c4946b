package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialGame(t *testing.T, srv *Server, gameID string) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/games/" + gameID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt map[string]any
	require.NoError(t, conn.ReadJSON(&evt))
	return evt
}

func TestGameSocketPlay(t *testing.T) {
	srv := newTestServer(t, nil)
	game := srv.store.CreateGame(hausSonneLayout())
	conn := dialGame(t, srv, game.ID)

	evt := readEvent(t, conn)
	assert.Equal(t, "game_state", evt["type"])

	require.NoError(t, conn.WriteJSON(inputMessage{Row: 3, Col: 2, Value: "H"}))
	evt = readEvent(t, conn)
	require.Equal(t, "cell_update", evt["type"])
	move := evt["move"].(map[string]any)
	assert.Equal(t, true, move["correct"])
	assert.Equal(t, "h", move["value"])

	require.NoError(t, conn.WriteJSON(inputMessage{Row: 0, Col: 0, Value: "a"}))
	evt = readEvent(t, conn)
	assert.Equal(t, "error", evt["type"])
	assert.Equal(t, "Case noire", evt["error"])

	for _, c := range hausSonneCells()[1:] {
		require.NoError(t, conn.WriteJSON(inputMessage{Row: c.row, Col: c.col, Value: c.letter}))
	}
	for {
		evt = readEvent(t, conn)
		if evt["type"] == "solved" {
			break
		}
	}
	assert.True(t, game.Solved())
}

func TestGameSocketUnknownGame(t *testing.T) {
	srv := newTestServer(t, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/games/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}
