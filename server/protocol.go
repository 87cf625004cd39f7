package main

import (
	"encoding/json"

	"github.com/aljokwa/brandonJJGame/game"
)

// Client -> Server message types
const (
	MsgClaim   = "claim"   // take a seat
	MsgRelease = "release" // give up held seats
	MsgInput   = "input"
	MsgRestart = "restart" // start a fresh round
)

// Server -> Client message types
const (
	MsgWelcome = "welcome"
	MsgSeat    = "seat"   // seat granted, carries a reconnect token
	MsgSeats   = "seats"  // seat ownership changed
	MsgHit     = "hit"    // boss or player took damage
	MsgOver    = "over"   // round ended under the defeat rule
	MsgTuning  = "tuning" // round restarted with new tuning
	MsgError   = "error"
)

// SeatBoth claims both avatars from one connection (hot-seat on one keyboard)
const SeatBoth = "both"

// Binary input: 2 bytes [binaryInputTag, flags]
const binaryInputTag = 0x01

const (
	flagUp = 1 << iota
	flagDown
	flagLeft
	flagRight
	flagFireBrandon
	flagFireJJ
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string `json:"t"`
	Data any    `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages so the payload is decoded once
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClaimMsg asks for a seat. Token re-claims a seat after a reconnect.
type ClaimMsg struct {
	Seat     string `json:"seat"`
	Token    string `json:"token,omitempty"`
	Password string `json:"password,omitempty"`
}

// InputFrame is the latest held state reported by one connection
type InputFrame struct {
	Up          bool `json:"u"`
	Down        bool `json:"d"`
	Left        bool `json:"l"`
	Right       bool `json:"r"`
	FireBrandon bool `json:"f1"` // space
	FireJJ      bool `json:"f2"` // enter
}

// EncodeBinaryInput packs a frame into the compact binary form
func EncodeBinaryInput(in InputFrame) []byte {
	var flags byte
	if in.Up {
		flags |= flagUp
	}
	if in.Down {
		flags |= flagDown
	}
	if in.Left {
		flags |= flagLeft
	}
	if in.Right {
		flags |= flagRight
	}
	if in.FireBrandon {
		flags |= flagFireBrandon
	}
	if in.FireJJ {
		flags |= flagFireJJ
	}
	return []byte{binaryInputTag, flags}
}

// DecodeBinaryInput unpacks a binary input message. Returns false if msg
// is not one.
func DecodeBinaryInput(msg []byte) (InputFrame, bool) {
	if len(msg) != 2 || msg[0] != binaryInputTag {
		return InputFrame{}, false
	}
	flags := msg[1]
	return InputFrame{
		Up:          flags&flagUp != 0,
		Down:        flags&flagDown != 0,
		Left:        flags&flagLeft != 0,
		Right:       flags&flagRight != 0,
		FireBrandon: flags&flagFireBrandon != 0,
		FireJJ:      flags&flagFireJJ != 0,
	}, true
}

// WelcomeMsg is sent when a connection is accepted
type WelcomeMsg struct {
	ConnID    string      `json:"cid"`
	SessionID string      `json:"sid"`
	Seats     SeatsMsg    `json:"seats"`
	Tuning    game.Tuning `json:"tuning"`
}

// SeatMsg confirms a claim
type SeatMsg struct {
	Seat  string `json:"seat"`
	Token string `json:"token"`
}

// SeatsMsg lists which avatars are taken
type SeatsMsg struct {
	Brandon bool `json:"Brandon"`
	JJ      bool `json:"JJ"`
}

// HitMsg reports damage from the collision pass
type HitMsg struct {
	Kind   string `json:"kind"` // boss_hit or player_hit
	Player string `json:"player"`
	Amount int    `json:"amount"`
	Health int    `json:"hp"` // target health after the hit
	Score  int    `json:"sc"` // player score after the hit
}

// OverMsg announces the end of a round
type OverMsg struct {
	Outcome string `json:"outcome"`
	Brandon int    `json:"Brandon"`
	JJ      int    `json:"JJ"`
	Ticks   uint64 `json:"ticks"`
}

// TuningMsg announces the constants of a restarted round
type TuningMsg struct {
	Tuning game.Tuning `json:"tuning"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// StateMsg is broadcast as msgpack in binary frames
type StateMsg struct {
	Snapshot game.Snapshot        `msgpack:"s"`
	Seats    [game.SeatCount]bool `msgpack:"st"`
	Over     bool                 `msgpack:"ov"`
}
