package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/realtime"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// client is one websocket connection. It owns a stable player identity for
// its lifetime and forwards room topic traffic out to the socket.
type client struct {
	handler  *Handler
	conn     *websocket.Conn
	playerID model.PlayerID
	logger   *slog.Logger

	send chan []byte

	mu   sync.Mutex
	subs map[model.RoomID]*realtime.Subscriber

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(h *Handler, conn *websocket.Conn, playerID model.PlayerID) *client {
	return &client{
		handler:  h,
		conn:     conn,
		playerID: playerID,
		logger:   h.logger.With(slog.String("player_id", string(playerID))),
		send:     make(chan []byte, 256),
		subs:     make(map[model.RoomID]*realtime.Subscriber),
		done:     make(chan struct{}),
	}
}

// enqueue queues an encoded message for the socket, dropping it if the
// client cannot keep up
func (c *client) enqueue(msg realtime.Message) {
	select {
	case c.send <- msg.Encode():
	case <-c.done:
	default:
		c.logger.Warn("outbound message dropped, client too slow")
	}
}

// subscribe attaches the client to a room's topic. The subscriber's feed is
// pumped into the client's single outbound channel so writePump stays the
// only writer on the socket.
func (c *client) subscribe(roomID model.RoomID) *realtime.Subscriber {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sub, ok := c.subs[roomID]; ok {
		return sub
	}

	hub := c.handler.hubs.GetOrCreateHub(roomID)
	sub := realtime.NewSubscriber(hub, c.playerID)
	hub.Register(sub)
	c.subs[roomID] = sub

	go func() {
		for data := range sub.Send() {
			select {
			case c.send <- data:
			case <-c.done:
				return
			default:
				c.logger.Warn("room message dropped, client too slow",
					slog.String("room", string(roomID)))
			}
		}
		c.mu.Lock()
		delete(c.subs, roomID)
		c.mu.Unlock()
	}()

	return sub
}

// unsubscribe detaches the client from a room's topic
func (c *client) unsubscribe(roomID model.RoomID) {
	c.mu.Lock()
	sub, ok := c.subs[roomID]
	delete(c.subs, roomID)
	c.mu.Unlock()
	if !ok {
		return
	}

	if hub := c.handler.hubs.GetHub(roomID); hub != nil {
		hub.Unregister(sub)
	}
}

// close tears the connection down once, detaching every room subscription
// and sweeping the player out of any rooms they were in
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		subs := make(map[model.RoomID]*realtime.Subscriber, len(c.subs))
		for id, sub := range c.subs {
			subs[id] = sub
		}
		c.subs = make(map[model.RoomID]*realtime.Subscriber)
		c.mu.Unlock()

		for roomID, sub := range subs {
			if hub := c.handler.hubs.GetHub(roomID); hub != nil {
				hub.Unregister(sub)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.handler.roster.Disconnect(ctx, c.playerID); err != nil {
			c.logger.Error("disconnect sweep failed", slog.Any("error", err))
		}

		c.conn.Close()
		c.logger.Info("client disconnected")
	})
}

// readPump reads commands off the socket until the connection dies
func (c *client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read error", slog.Any("error", err))
			}
			return
		}

		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.enqueue(realtime.Message{
				Type:    model.EventError,
				Payload: model.ErrorPayload{Message: "malformed message"},
			})
			continue
		}
		c.handler.dispatch(c, cmd)
	}
}

// writePump is the sole writer on the socket. It drains the outbound
// channel and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
