// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

// Package relay implements the online transport: a websocket fan-out server
// and the channel client sessions use to exchange messages.
//
// The relay is content-blind. It forwards every frame on a channel to every
// other connection on that channel and never inspects payloads; all game
// meaning lives in the message envelope consumed by internal/core.
package relay

import "encoding/json"

// Message types.
const (
	// MsgTypeState carries a full game state snapshot from the host.
	MsgTypeState = "state"
	// MsgTypeJoin announces a participant during the lobby phase.
	MsgTypeJoin = "join"
	// MsgTypeAction carries a guest's requested action to the host.
	MsgTypeAction = "action"
)

// Message is the envelope exchanged over a relay channel.
type Message struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	SenderID string          `json:"senderId"`
}

// JoinPayload is the body of a MsgTypeJoin message: the display name the
// participant wants on the roster. The participant's identity is the
// envelope's SenderID.
type JoinPayload struct {
	Name string `json:"name"`
}
