package animation

import (
	"fmt"
	"sync"
	"time"
)

// PlayerStatus represents the current state of a player.
type PlayerStatus int

const (
	// PlayerIdle means the player has not started or was canceled.
	PlayerIdle PlayerStatus = iota
	// PlayerRunning means progress is advancing.
	PlayerRunning
	// PlayerPaused means progress is frozen mid-transition.
	PlayerPaused
	// PlayerFinished means progress reached 1.
	PlayerFinished
)

func (s PlayerStatus) String() string {
	switch s {
	case PlayerIdle:
		return "idle"
	case PlayerRunning:
		return "running"
	case PlayerPaused:
		return "paused"
	case PlayerFinished:
		return "finished"
	default:
		return fmt.Sprintf("PlayerStatus(%d)", int(s))
	}
}

var (
	playerMu      sync.Mutex
	activePlayers = make(map[*Player]struct{})
)

// Player drives one transition's progress from 0 to 1 over Duration.
//
// Players are frame-driven: while running they are registered with the
// package and advanced by [StepPlayers] once per frame. All control methods
// are idempotent where repetition has no meaning (starting a running player,
// pausing a paused one).
type Player struct {
	// Duration is the length of the transition.
	Duration time.Duration

	progress      float64
	status        PlayerStatus
	startProgress float64
	startTime     time.Time

	listeners       map[int]func()
	statusListeners map[int]func(PlayerStatus)
	nextListenerID  int
}

// NewPlayer creates an idle player with the given duration.
func NewPlayer(duration time.Duration) *Player {
	return &Player{
		Duration:        duration,
		listeners:       make(map[int]func()),
		statusListeners: make(map[int]func(PlayerStatus)),
	}
}

// Progress returns the current progress in [0, 1].
func (p *Player) Progress() float64 {
	return p.progress
}

// Status returns the current player status.
func (p *Player) Status() PlayerStatus {
	return p.status
}

// Start begins playing. A finished or idle player plays from 0; a paused
// player resumes where it stopped. Starting a running player is a no-op.
func (p *Player) Start() {
	switch p.status {
	case PlayerRunning:
		return
	case PlayerIdle, PlayerFinished:
		p.progress = 0
	}
	p.run()
}

// Restart rewinds to 0 and plays regardless of current state.
func (p *Player) Restart() {
	p.progress = 0
	p.run()
}

// Pause freezes progress. No-op unless running.
func (p *Player) Pause() {
	if p.status != PlayerRunning {
		return
	}
	p.progress = p.progressAt(Now())
	p.deactivate()
	p.setStatus(PlayerPaused)
}

// Resume continues a paused player. No-op otherwise.
func (p *Player) Resume() {
	if p.status != PlayerPaused {
		return
	}
	p.run()
}

// TogglePause pauses a running player or resumes a paused one.
func (p *Player) TogglePause() {
	switch p.status {
	case PlayerRunning:
		p.Pause()
	case PlayerPaused:
		p.Resume()
	}
}

// SeekTo pauses the player and sets progress to the given fraction,
// clamped to [0, 1].
func (p *Player) SeekTo(progress float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	p.deactivate()
	p.progress = progress
	p.setStatus(PlayerPaused)
	p.notifyListeners()
}

// Finish jumps to the end state immediately.
func (p *Player) Finish() {
	p.deactivate()
	p.progress = 1
	p.setStatus(PlayerFinished)
	p.notifyListeners()
}

// Cancel stops the player and rewinds to the initial state.
func (p *Player) Cancel() {
	p.deactivate()
	p.progress = 0
	p.setStatus(PlayerIdle)
	p.notifyListeners()
}

// AddListener adds a callback that fires whenever progress changes.
// Returns an unsubscribe function.
func (p *Player) AddListener(fn func()) func() {
	id := p.nextListenerID
	p.nextListenerID++
	p.listeners[id] = fn
	return func() {
		delete(p.listeners, id)
	}
}

// AddStatusListener adds a callback that fires whenever the status changes.
// Returns an unsubscribe function.
func (p *Player) AddStatusListener(fn func(PlayerStatus)) func() {
	id := p.nextListenerID
	p.nextListenerID++
	p.statusListeners[id] = fn
	return func() {
		delete(p.statusListeners, id)
	}
}

// Dispose stops the player and releases its listeners.
func (p *Player) Dispose() {
	p.deactivate()
	p.listeners = nil
	p.statusListeners = nil
}

// run registers the player with the frame loop from the current progress.
func (p *Player) run() {
	if p.Duration <= 0 {
		p.Finish()
		return
	}
	p.startProgress = p.progress
	p.startTime = Now()
	playerMu.Lock()
	activePlayers[p] = struct{}{}
	playerMu.Unlock()
	p.setStatus(PlayerRunning)
}

func (p *Player) deactivate() {
	playerMu.Lock()
	delete(activePlayers, p)
	playerMu.Unlock()
}

func (p *Player) progressAt(now time.Time) float64 {
	elapsed := now.Sub(p.startTime)
	progress := p.startProgress + float64(elapsed)/float64(p.Duration)
	if progress > 1 {
		progress = 1
	}
	return progress
}

// step advances the player one frame.
func (p *Player) step(now time.Time) {
	if p.status != PlayerRunning {
		return
	}
	p.progress = p.progressAt(now)
	p.notifyListeners()
	if p.progress >= 1 {
		p.deactivate()
		p.setStatus(PlayerFinished)
	}
}

func (p *Player) setStatus(status PlayerStatus) {
	if p.status == status {
		return
	}
	p.status = status
	for _, listener := range p.statusListeners {
		listener(status)
	}
}

func (p *Player) notifyListeners() {
	for _, listener := range p.listeners {
		listener()
	}
}

// StepPlayers advances all running players. The host frame loop calls this
// once per frame.
func StepPlayers() {
	playerMu.Lock()
	players := make([]*Player, 0, len(activePlayers))
	for p := range activePlayers {
		players = append(players, p)
	}
	playerMu.Unlock()

	now := Now()
	for _, p := range players {
		p.step(now)
	}
}

// HasActivePlayers returns true if any players are running.
func HasActivePlayers() bool {
	playerMu.Lock()
	defer playerMu.Unlock()
	return len(activePlayers) > 0
}
