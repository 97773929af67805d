// Package game implements the training session state machine: mode
// transitions, the life/score economy, response classification and the
// game-over/restart lifecycle. Rendering, audio and transport live
// elsewhere; the controller only exposes state and accepts commands.
package game

import "errors"

// Mode is the session's top-level mode.
type Mode int

const (
	// ModeMenu is the navigation mode; literal tokens select actions.
	ModeMenu Mode = iota
	// ModeTraining forwards free text to the oracle as answers.
	ModeTraining
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeTraining:
		return "training"
	default:
		return "unknown"
	}
}

// Phase is the game-over latch. The Active to Halted edge is taken at
// most once per episode; Restart returns the session to Active.
type Phase int

const (
	PhaseActive Phase = iota
	PhaseHalted
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// Role identifies a message author.
type Role string

const (
	RoleUser    Role = "user"
	RoleTeacher Role = "teacher"
	RoleSystem  Role = "system"
)

// Cue is an audible/visual signal for the presentation layer.
type Cue int

const (
	CuePositive Cue = iota
	CueNegative
)

// Life/score economy.
const (
	// MaxLives is the initial and maximum life pool.
	MaxLives = 3.0
	// FailDamage is deducted per fail-classified exchange.
	FailDamage = 1.0
	// PassReward is added per pass-classified exchange.
	PassReward = 100
	// HintScoreCost is the score charge for a hint when affordable.
	HintScoreCost = 50
	// HintLifeCost is the life charge for a hint when score is short.
	HintLifeCost = 0.5
)

// Reserved command tokens. Everything else is opaque payload.
const (
	TokenMenu        = "menu"
	TokenHelp        = "help"
	TokenHint        = "hint"
	TokenTraining    = "1"
	TokenLeaderboard = "2"
	TokenStatus      = "3"
)

// PlaceholderName stands in for an empty identifier on the leaderboard.
const PlaceholderName = "Anonymous"

// Sentinel errors for the inbound surface.
var (
	// ErrBusy rejects a second oracle-dependent command while one is
	// outstanding.
	ErrBusy = errors.New("an oracle request is already in flight")
	// ErrNotLoggedIn rejects commands before Login.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrEmptyIdentifier rejects a blank login name.
	ErrEmptyIdentifier = errors.New("identifier must not be empty")
	// ErrNotInTraining rejects training-only operations from the menu.
	ErrNotInTraining = errors.New("not in training mode")
)
