// Package transport serves the simulation to browser clients over
// websockets: static world geometry on connect, state snapshots on a fixed
// interval, and player input flowing back into the game's command queue.
package transport

import (
	"encoding/json"
	"fmt"

	"github.com/pthm-cable/perch/game"
)

// Message type tags. Every message carries a "type" field.
const (
	MsgWorld    = "world"    // server -> client, once on connect
	MsgSnapshot = "snapshot" // server -> client, per broadcast
	MsgInput    = "input"    // client -> server, held axes
	MsgJump     = "jump"     // client -> server, one-shot
	MsgReset    = "reset"    // client -> server, one-shot
)

// WorldMessage carries the static world geometry.
type WorldMessage struct {
	Type  string             `json:"type"`
	World game.WorldSnapshot `json:"world"`
}

// SnapshotMessage carries one simulation state snapshot.
type SnapshotMessage struct {
	Type     string        `json:"type"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// InputMessage is the client's held input axes.
type InputMessage struct {
	Type string  `json:"type"`
	Move float32 `json:"move"` // forward axis in [-1, 1]
	Turn float32 `json:"turn"` // yaw axis in [-1, 1]
}

type envelope struct {
	Type string `json:"type"`
}

// parseCommand converts a raw client message into a game command.
func parseCommand(data []byte) (game.Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return game.Command{}, fmt.Errorf("parsing message envelope: %w", err)
	}

	switch env.Type {
	case MsgInput:
		var msg InputMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return game.Command{}, fmt.Errorf("parsing input message: %w", err)
		}
		return game.Command{Kind: game.CommandMove, Move: msg.Move, Turn: msg.Turn}, nil
	case MsgJump:
		return game.Command{Kind: game.CommandJump}, nil
	case MsgReset:
		return game.Command{Kind: game.CommandReset}, nil
	default:
		return game.Command{}, fmt.Errorf("unknown message type %q", env.Type)
	}
}
