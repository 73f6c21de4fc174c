package game

import (
	"github.com/pthm-cable/perch/config"
)

// CommandKind selects what a Command does.
type CommandKind uint8

const (
	// CommandMove sets the held move and turn axes. The axes stay in
	// effect until the next CommandMove arrives.
	CommandMove CommandKind = iota
	// CommandJump requests a jump on the next tick.
	CommandJump
	// CommandReset teleports the player back to the spawn disk.
	CommandReset
)

// Command is one unit of player input, produced by a transport client or a
// test and consumed by the simulation loop.
type Command struct {
	Kind CommandKind
	Move float32 // forward axis in [-1, 1]
	Turn float32 // yaw axis in [-1, 1], positive turns left
}

// inputState holds the held axes and one-shot requests between ticks.
type inputState struct {
	move  float32
	turn  float32
	jump  bool
	reset bool
}

// drainCommands empties the command queue into the input state without
// blocking. Held axes take the latest value; jump and reset latch until
// applied.
func (g *Game) drainCommands() {
	for {
		select {
		case cmd := <-g.commands:
			switch cmd.Kind {
			case CommandMove:
				g.input.move = clampAxis(cmd.Move)
				g.input.turn = clampAxis(cmd.Turn)
			case CommandJump:
				g.input.jump = true
			case CommandReset:
				g.input.reset = true
			}
		default:
			return
		}
	}
}

// applyInput feeds the accumulated input into the player controller.
func (g *Game) applyInput(cfg *config.Config, dt float32) {
	if g.input.reset {
		g.input.reset = false
		g.player.Reset()
		g.collector.RecordPlayerReset()
	}

	if g.input.turn != 0 {
		g.player.Turn(g.input.turn * float32(cfg.Player.TurnRate) * dt)
	}

	if g.input.move != 0 {
		accel := g.player.Forward().Mul(g.input.move * float32(cfg.Player.MoveAccel) * dt)
		g.player.AddAcceleration(accel)
	}

	if g.input.jump {
		g.input.jump = false
		if !g.player.Jumping() {
			g.player.Jump()
			g.collector.RecordPlayerJump()
		}
	}
}

// clampAxis limits an input axis to [-1, 1].
func clampAxis(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
