// Package client maintains the websocket link to a simulator server and
// feeds each battle room's protocol stream through a Translator.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"showdown-scout/tracker"
)

const (
	reconnectBase = time.Second
	reconnectMax  = 30 * time.Second
)

// Handler receives what the client extracts from the stream. Calls arrive
// from the single read loop, one room at a time.
type Handler interface {
	HandleObservation(roomID string, obs tracker.Observation)
	HandleBattleEnd(roomID, winner string)
}

type Client struct {
	url      string
	username string
	log      *zap.Logger
	dialer   *websocket.Dialer

	mu          sync.Mutex
	conn        *websocket.Conn
	rooms       map[string]*Translator
	joinedRooms []string
}

func New(serverURL, username string, log *zap.Logger) (*Client, error) {
	if _, err := url.Parse(serverURL); err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		url:      serverURL,
		username: username,
		log:      log,
		dialer:   websocket.DefaultDialer,
		rooms:    make(map[string]*Translator),
	}, nil
}

// Run connects and reads until ctx is done, reconnecting with backoff and
// rejoining rooms after a drop.
func (c *Client) Run(ctx context.Context, h Handler) error {
	backoff := reconnectBase
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.connect(ctx); err != nil {
			c.log.Warn("dial failed", zap.String("url", c.url), zap.Error(err))
		} else {
			backoff = reconnectBase
			c.readLoop(ctx, h)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > reconnectMax {
			backoff = reconnectMax
		}
	}
}

func (c *Client) connect(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	rooms := append([]string(nil), c.joinedRooms...)
	c.mu.Unlock()

	c.log.Info("connected", zap.String("url", c.url))
	for _, room := range rooms {
		if err := c.write("|/join " + room); err != nil {
			c.log.Warn("rejoin failed", zap.String("room", room), zap.Error(err))
		}
	}
	return nil
}

func (c *Client) readLoop(ctx context.Context, h Handler) {
	conn := c.current()
	if conn == nil {
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.log.Warn("read failed", zap.Error(err))
			}
			return
		}
		c.handleFrame(string(message), h)
	}
}

// handleFrame splits one websocket frame: an optional ">roomid" header
// line, then protocol lines for that room.
func (c *Client) handleFrame(frame string, h Handler) {
	room := "lobby"
	for _, line := range strings.Split(frame, "\n") {
		if strings.HasPrefix(line, ">") {
			room = strings.TrimSpace(line[1:])
			continue
		}
		if line == "" {
			continue
		}
		c.handleLine(room, line, h)
	}
}

func (c *Client) handleLine(room, line string, h Handler) {
	if winner, ok := strings.CutPrefix(line, "|win|"); ok {
		h.HandleBattleEnd(room, strings.TrimSpace(winner))
		return
	}

	c.mu.Lock()
	tr, ok := c.rooms[room]
	if !ok {
		tr = NewTranslator(c.username)
		c.rooms[room] = tr
	}
	c.mu.Unlock()

	for _, obs := range tr.Translate(line) {
		h.HandleObservation(room, obs)
	}
}

// JoinRoom subscribes to a battle room; the room is rejoined after a
// reconnect.
func (c *Client) JoinRoom(roomID string) error {
	c.mu.Lock()
	joined := false
	for _, r := range c.joinedRooms {
		if r == roomID {
			joined = true
			break
		}
	}
	if !joined {
		c.joinedRooms = append(c.joinedRooms, roomID)
	}
	c.mu.Unlock()
	return c.write("|/join " + roomID)
}

// LeaveRoom drops the subscription and the room's translator state.
func (c *Client) LeaveRoom(roomID string) error {
	c.mu.Lock()
	delete(c.rooms, roomID)
	for i, r := range c.joinedRooms {
		if r == roomID {
			c.joinedRooms = append(c.joinedRooms[:i], c.joinedRooms[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return c.write("|/leave " + roomID)
}

func (c *Client) write(message string) error {
	conn := c.current()
	if conn == nil {
		return fmt.Errorf("not connected")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, []byte(message))
}

func (c *Client) current() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}
