// Package actions maps externally-invoked action names onto animation player
// operations.
//
// The action set is closed: each operation is one [Kind] variant, parsed once
// from the external name and argument list, then dispatched through an
// exhaustive switch. Unknown names and malformed arguments fail at parse
// time rather than silently doing nothing.
package actions

import (
	"fmt"
	"strconv"

	"github.com/go-drift/listkit/pkg/animation"
	"github.com/go-drift/listkit/pkg/errors"
)

// Kind identifies one player operation.
type Kind int

const (
	// KindStart begins playback.
	KindStart Kind = iota
	// KindRestart rewinds and begins playback.
	KindRestart
	// KindPause freezes playback.
	KindPause
	// KindResume continues paused playback.
	KindResume
	// KindTogglePause flips between paused and running.
	KindTogglePause
	// KindSeekTo pauses and jumps to a progress fraction.
	KindSeekTo
	// KindFinish jumps to the end state.
	KindFinish
	// KindCancel stops and rewinds to the initial state.
	KindCancel
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindRestart:
		return "restart"
	case KindPause:
		return "pause"
	case KindResume:
		return "resume"
	case KindTogglePause:
		return "togglePause"
	case KindSeekTo:
		return "seekTo"
	case KindFinish:
		return "finish"
	case KindCancel:
		return "cancel"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Action is one parsed invocation.
type Action struct {
	Kind Kind
	// Progress is the target fraction for seekTo actions.
	Progress float64
}

// kindsByName is the closed name table, built once.
var kindsByName = map[string]Kind{
	"start":       KindStart,
	"restart":     KindRestart,
	"pause":       KindPause,
	"resume":      KindResume,
	"togglePause": KindTogglePause,
	"seekTo":      KindSeekTo,
	"finish":      KindFinish,
	"cancel":      KindCancel,
}

// Parse converts an external invocation into an Action. The argument
// contract is positional: seekTo takes exactly one fraction in [0, 1];
// every other action takes none.
func Parse(name string, args []string) (Action, error) {
	const op = "actions.Parse"

	kind, ok := kindsByName[name]
	if !ok {
		return Action{}, errors.Actionf(op, "unknown action %q", name)
	}

	if kind == KindSeekTo {
		if len(args) != 1 {
			return Action{}, errors.Actionf(op, "seekTo takes exactly one argument, got %d", len(args))
		}
		progress, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return Action{}, errors.Actionf(op, "seekTo argument %q is not a number", args[0])
		}
		if progress < 0 || progress > 1 {
			return Action{}, errors.Actionf(op, "seekTo argument %v is outside [0, 1]", progress)
		}
		return Action{Kind: KindSeekTo, Progress: progress}, nil
	}

	if len(args) != 0 {
		return Action{}, errors.Actionf(op, "%s takes no arguments, got %d", name, len(args))
	}
	return Action{Kind: kind}, nil
}

// Dispatcher routes actions to a player. Build one per component at
// initialization.
type Dispatcher struct {
	player *animation.Player
}

// NewDispatcher creates a dispatcher over the given player.
func NewDispatcher(player *animation.Player) *Dispatcher {
	return &Dispatcher{player: player}
}

// Dispatch executes one action. The switch is exhaustive over Kind.
func (d *Dispatcher) Dispatch(a Action) error {
	switch a.Kind {
	case KindStart:
		d.player.Start()
	case KindRestart:
		d.player.Restart()
	case KindPause:
		d.player.Pause()
	case KindResume:
		d.player.Resume()
	case KindTogglePause:
		d.player.TogglePause()
	case KindSeekTo:
		d.player.SeekTo(a.Progress)
	case KindFinish:
		d.player.Finish()
	case KindCancel:
		d.player.Cancel()
	default:
		return errors.Actionf("actions.Dispatcher.Dispatch", "unhandled action kind %s", a.Kind)
	}
	return nil
}

// Invoke parses and dispatches in one step.
func (d *Dispatcher) Invoke(name string, args []string) error {
	a, err := Parse(name, args)
	if err != nil {
		return err
	}
	return d.Dispatch(a)
}
