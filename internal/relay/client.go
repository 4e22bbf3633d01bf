// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/oops"
)

// Error codes for channel client failures.
const (
	CodeDialFailed = "RELAY_DIAL_FAILED"
	CodeClosed     = "RELAY_CLOSED"
)

// Channel is a client connection to one relay channel. Messages published by
// this client are not echoed back on Receive; the relay already excludes the
// sender, and the client additionally filters by sender id in case the frame
// took a round trip through another relay.
type Channel struct {
	ws       *websocket.Conn
	senderID string
	logger   *slog.Logger
	incoming chan Message

	writeMu sync.Mutex
	closed  bool
}

// Dial connects to a relay channel, e.g. ws://host:port/channels/GAMEID.
func Dial(ctx context.Context, channelURL, senderID string, logger *slog.Logger) (*Channel, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, channelURL, nil)
	if err != nil {
		builder := oops.Code(CodeDialFailed).With("url", channelURL)
		if resp != nil {
			builder = builder.With("status", resp.StatusCode)
		}
		return nil, builder.Wrapf(err, "dial relay channel")
	}

	c := &Channel{
		ws:       ws,
		senderID: senderID,
		logger:   logger.With("component", "relay_client"),
		incoming: make(chan Message, sendBuffer),
	}
	go c.readLoop()
	return c, nil
}

// Publish sends a message on the channel, stamping the sender id.
func (c *Channel) Publish(msg Message) error {
	msg.SenderID = c.senderID
	frame, err := json.Marshal(msg)
	if err != nil {
		return oops.Wrapf(err, "marshal relay message")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return oops.Code(CodeClosed).Errorf("channel is closed")
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return oops.Wrapf(err, "write relay message")
	}
	return nil
}

// Receive returns the stream of messages from other participants. The
// channel is closed when the connection drops or Close is called.
func (c *Channel) Receive() <-chan Message {
	return c.incoming
}

// Close shuts the connection down. Safe to call more than once.
func (c *Channel) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.ws.Close()
}

func (c *Channel) readLoop() {
	defer close(c.incoming)
	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("relay read failed", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(frame, &msg); err != nil {
			c.logger.Warn("dropping malformed relay frame", "error", err)
			continue
		}
		if msg.SenderID == c.senderID {
			continue
		}
		select {
		case c.incoming <- msg:
		default:
			c.logger.Warn("dropping relay message, receiver not draining", "type", msg.Type)
		}
	}
}
