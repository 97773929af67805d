package game

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/drillgo-dev/drillgo/internal/oracle"
	"github.com/drillgo-dev/drillgo/pkg/leaderboard"
	"github.com/drillgo-dev/drillgo/pkg/observability"
)

// Options configures a Controller.
type Options struct {
	// Oracle produces teacher replies. Required.
	Oracle oracle.Oracle

	// Store persists the leaderboard. Required.
	Store leaderboard.Store

	// Cue receives audible/visual signals. Optional. It is invoked
	// with the controller lock held and must not call back in.
	Cue func(Cue)
}

// Controller owns all mutable session state and mediates every
// transition. One controller per process; a rendering goroutine may
// read state through the accessors while a command is in flight.
type Controller struct {
	mu sync.Mutex

	oracle oracle.Oracle
	store  leaderboard.Store
	cue    func(Cue)

	mode       Mode
	phase      Phase
	lives      float64
	score      int
	busy       bool
	loggedIn   bool
	identifier string
	history    []Message
	board      leaderboard.Board
}

// New creates a controller and loads the persisted leaderboard.
// A load failure is downgraded to an empty board.
func New(ctx context.Context, opts Options) *Controller {
	c := &Controller{
		oracle: opts.Oracle,
		store:  opts.Store,
		cue:    opts.Cue,
		mode:   ModeMenu,
		phase:  PhaseActive,
		lives:  MaxLives,
	}

	board, err := opts.Store.Load(ctx)
	if err != nil {
		log.Printf("leaderboard load failed, starting empty: %v", err)
		board = leaderboard.Board{}
	}
	c.board = board

	c.syncGauges()
	return c
}

// Login registers the user's identifier and resets history to the
// welcome message. The identifier is immutable for the session.
func (c *Controller) Login(identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return ErrEmptyIdentifier
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loggedIn {
		return fmt.Errorf("already logged in as %s", c.identifier)
	}

	c.identifier = identifier
	c.loggedIn = true
	c.mode = ModeMenu
	c.history = []Message{systemMessage(welcomeBody(identifier))}
	return nil
}

// HandleCommand processes one line of user input according to the
// current mode. After game-over every command is inert until Restart.
func (c *Controller) HandleCommand(ctx context.Context, raw string) error {
	c.mu.Lock()

	if !c.loggedIn {
		c.mu.Unlock()
		return ErrNotLoggedIn
	}
	if c.phase == PhaseHalted {
		c.mu.Unlock()
		return nil
	}

	token := strings.ToLower(strings.TrimSpace(raw))

	// "menu" short-circuits everything, including hint/help handling.
	if token == TokenMenu {
		defer c.mu.Unlock()
		c.append(userMessage(raw))
		c.mode = ModeMenu
		c.append(systemMessage(welcomeBody(c.identifier)))
		return nil
	}

	if c.mode == ModeMenu {
		return c.dispatchMenu(ctx, raw, token)
	}

	switch token {
	case TokenHelp, TokenHint:
		return c.hint(ctx, raw)
	default:
		return c.trainingExchange(ctx, raw)
	}
}

// RequestExam starts a surprise exam. Training-only; no upfront cost.
func (c *Controller) RequestExam(ctx context.Context) error {
	c.mu.Lock()

	if !c.loggedIn {
		c.mu.Unlock()
		return ErrNotLoggedIn
	}
	if c.phase == PhaseHalted {
		c.mu.Unlock()
		return nil
	}
	if c.mode != ModeTraining {
		c.mu.Unlock()
		return ErrNotInTraining
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}

	c.append(systemMessage(examStartingBody))

	reply, err := c.send(ctx, examPrompt)
	defer c.mu.Unlock()

	if err != nil {
		c.append(systemMessage(oracleFailureBody))
		return nil
	}

	clean, outcome := Classify(reply)
	c.applyOutcome(outcome)
	c.append(teacherMessage(clean, menuQuickActions()...))
	c.observeGameOver(ctx)
	return nil
}

// Restart resets the episode: full lives, zero score, latch cleared,
// menu mode. Idempotent; callable whether or not the game is over.
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lives = MaxLives
	c.score = 0
	c.phase = PhaseActive
	c.mode = ModeMenu
	c.busy = false
	if c.loggedIn {
		c.history = []Message{systemMessage(welcomeBody(c.identifier))}
	} else {
		c.history = nil
	}
	c.syncGauges()
}

// dispatchMenu handles menu-mode input. The caller holds c.mu; the
// lock is released before returning.
func (c *Controller) dispatchMenu(ctx context.Context, raw, token string) error {
	switch token {
	case TokenTraining:
		return c.introExchange(ctx)

	case TokenLeaderboard:
		defer c.mu.Unlock()
		c.append(userMessage(raw))
		c.append(systemMessage(leaderboardBody(c.board)))
		return nil

	case TokenStatus:
		defer c.mu.Unlock()
		c.append(userMessage(raw))
		c.append(systemMessage(statusBody(c.identifier, c.lives, c.score)))
		return nil

	default:
		defer c.mu.Unlock()
		c.append(userMessage(raw))
		c.append(systemMessage(rejectionBody(raw)))
		c.signal(CueNegative)
		return nil
	}
}

// introExchange enters training and runs the scripted opening prompt.
// On completion the history is replaced wholesale, a clean slate for
// the new mode. Caller holds c.mu; released before returning.
func (c *Controller) introExchange(ctx context.Context) error {
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}

	c.mode = ModeTraining

	reply, err := c.send(ctx, introPrompt)
	defer c.mu.Unlock()

	if err != nil {
		c.history = []Message{systemMessage(oracleFailureBody)}
		return nil
	}

	clean, outcome := Classify(reply)
	c.applyOutcome(outcome)
	c.history = []Message{teacherMessage(clean, menuQuickActions()...)}
	c.observeGameOver(ctx)
	return nil
}

// trainingExchange forwards a free-text answer to the oracle and
// grades the reply. Caller holds c.mu; released before returning.
func (c *Controller) trainingExchange(ctx context.Context, raw string) error {
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}

	c.append(userMessage(raw))

	reply, err := c.send(ctx, raw)
	defer c.mu.Unlock()

	if err != nil {
		c.append(systemMessage(oracleFailureBody))
		return nil
	}

	clean, outcome := Classify(reply)
	c.applyOutcome(outcome)
	c.append(teacherMessage(clean, menuQuickActions()...))
	c.observeGameOver(ctx)
	return nil
}

// hint charges the fixed cost up front, unconditionally of oracle
// outcome, then asks for a hint. The reply is never classified.
// Caller holds c.mu; released before returning.
func (c *Controller) hint(ctx context.Context, raw string) error {
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}

	c.append(userMessage(raw))

	if c.score >= HintScoreCost {
		c.score -= HintScoreCost
		observability.RecordHint("score")
	} else {
		c.lives = math.Max(0, c.lives-HintLifeCost)
		observability.RecordHint("lives")
	}
	c.syncGauges()

	reply, err := c.send(ctx, hintPrompt)
	defer c.mu.Unlock()

	if err != nil {
		c.append(systemMessage(oracleFailureBody))
	} else {
		c.append(teacherMessage(reply, menuQuickActions()...))
	}

	// A fatal charge still lets the hint round trip finish first, so
	// the terminal message lands after the hint (or its error).
	c.observeGameOver(ctx)
	return nil
}

// send performs the oracle round trip. The caller must hold c.mu with
// busy already checked false; send releases the lock for the duration
// of the network call and reacquires it before returning, with busy
// false again.
func (c *Controller) send(ctx context.Context, prompt string) (string, error) {
	c.busy = true
	c.mu.Unlock()

	start := time.Now()
	reply, err := c.oracle.Send(ctx, prompt)
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordOracleRequest(c.oracle.Name(), status, time.Since(start))

	c.mu.Lock()
	c.busy = false
	return reply, err
}

// applyOutcome mutates lives/score for a graded reply. The marker
// checks are independent; a reply with both markers applies both.
func (c *Controller) applyOutcome(outcome Outcome) {
	if outcome.Fail {
		c.lives = math.Max(0, c.lives-FailDamage)
		c.signal(CueNegative)
		observability.RecordExchange("fail")
	}
	if outcome.Pass {
		c.score += PassReward
		c.signal(CuePositive)
		observability.RecordExchange("pass")
	}
	if !outcome.Fail && !outcome.Pass {
		observability.RecordExchange("neutral")
	}
	c.syncGauges()
}

// observeGameOver takes the Active to Halted edge when the life pool
// is empty. Fires at most once per episode: the commit merges the
// entry, persists the whole board and appends the terminal message.
func (c *Controller) observeGameOver(ctx context.Context) {
	if c.phase != PhaseActive || c.lives > 0 {
		return
	}

	c.phase = PhaseHalted
	observability.RecordGameOver()

	name := c.identifier
	if name == "" {
		name = PlaceholderName
	}

	c.board = c.board.Merge(leaderboard.Entry{Name: name, Score: c.score})
	if err := c.store.Save(ctx, c.board); err != nil {
		log.Printf("leaderboard save failed: %v", err)
	}

	c.append(systemMessage(gameOverBody(c.board)))
}

func (c *Controller) append(msg Message) {
	c.history = append(c.history, msg)
}

func (c *Controller) signal(cue Cue) {
	if c.cue != nil {
		c.cue(cue)
	}
}

func (c *Controller) syncGauges() {
	observability.SetLives(c.lives)
	observability.SetScore(c.score)
}

// Read-only accessors for the presentation layer.

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Lives() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lives
}

func (c *Controller) Score() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.score
}

func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) Identifier() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identifier
}

// History returns a copy of the message log.
func (c *Controller) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}

// Leaderboard returns a copy of the in-memory board.
func (c *Controller) Leaderboard() leaderboard.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Clone()
}
