package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsMaxMessage = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// inputMessage is a keystroke sent by a websocket client.
type inputMessage struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value string `json:"value"`
}

// GET /api/games/{id}/ws — bidirectional play channel.
//
// Clients send inputMessage frames and receive the same events as the SSE
// stream, plus {"type":"error"} frames for rejected input.
func (s *Server) handleGameSocket(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Partie introuvable", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	sub := s.events.Subscribe(game.ID)
	direct := make(chan []byte, subscriberBuffer)
	done := make(chan struct{})

	go s.writeSocket(conn, sub, direct, done)

	defer func() {
		close(done)
		s.events.Unsubscribe(sub)
		conn.Close()
	}()

	initial, _ := json.Marshal(gameStateEvent(game))
	sendDirect(direct, initial)

	conn.SetReadLimit(wsMaxMessage)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var msg inputMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		if !s.moveRL.allow(r.RemoteAddr) {
			sendDirect(direct, errorFrame("Trop de requêtes, réessayez plus tard"))
			continue
		}
		if _, err := s.applyMove(game, msg.Row, msg.Col, msg.Value); err != nil {
			sendDirect(direct, errorFrame(moveErrorMessage(err)))
		}
	}
}

// writeSocket is the only writer of conn.
func (s *Server) writeSocket(conn *websocket.Conn, sub *subscriber, direct <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	write := func(kind int, data []byte) bool {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteMessage(kind, data) == nil
	}

	for {
		select {
		case <-done:
			return
		case msg, ok := <-sub.ch:
			if !ok || !write(websocket.TextMessage, msg) {
				return
			}
		case msg := <-direct:
			if !write(websocket.TextMessage, msg) {
				return
			}
		case <-ticker.C:
			if !write(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

// sendDirect queues a frame for this connection only, dropping it when the
// writer is backed up.
func sendDirect(ch chan<- []byte, data []byte) {
	select {
	case ch <- data:
	default:
	}
}

func errorFrame(msg string) []byte {
	data, _ := json.Marshal(map[string]string{"type": "error", "error": msg})
	return data
}
