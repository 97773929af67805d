package game

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drillgo-dev/drillgo/internal/oracle"
	"github.com/drillgo-dev/drillgo/pkg/leaderboard"
)

type fixture struct {
	ctrl   *Controller
	oracle *oracle.MockOracle
	store  *leaderboard.FileStore
	cues   []Cue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := leaderboard.NewFileStore(filepath.Join(t.TempDir(), "board.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		oracle: oracle.NewMockOracle(),
		store:  store,
	}
	f.ctrl = New(context.Background(), Options{
		Oracle: f.oracle,
		Store:  store,
		Cue:    func(c Cue) { f.cues = append(f.cues, c) },
	})
	return f
}

// loggedIn returns a fixture already logged in, in menu mode.
func loggedIn(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	require.NoError(t, f.ctrl.Login("recruit"))
	return f
}

// inTraining drives the fixture through menu option 1 with a neutral
// intro reply, leaving it in training mode.
func inTraining(t *testing.T) *fixture {
	t.Helper()
	f := loggedIn(t)
	f.oracle.Script("Welcome to the pit. First question: what is a goroutine?")
	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "1"))
	require.Equal(t, ModeTraining, f.ctrl.Mode())
	return f
}

func lastMessage(t *testing.T, c *Controller) Message {
	t.Helper()
	history := c.History()
	require.NotEmpty(t, history)
	return history[len(history)-1]
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.ctrl.Login("  recruit  "))
	assert.Equal(t, "recruit", f.ctrl.Identifier())
	assert.Equal(t, ModeMenu, f.ctrl.Mode())
	assert.Equal(t, MaxLives, f.ctrl.Lives())
	assert.Equal(t, 0, f.ctrl.Score())

	history := f.ctrl.History()
	require.Len(t, history, 1)
	assert.Equal(t, RoleSystem, history[0].Role)
	assert.Contains(t, history[0].Body, "recruit")
}

func TestLogin_EmptyIdentifier(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ctrl.Login("   "), ErrEmptyIdentifier)
}

func TestLogin_Immutable(t *testing.T) {
	f := loggedIn(t)
	require.Error(t, f.ctrl.Login("impostor"))
	assert.Equal(t, "recruit", f.ctrl.Identifier())
}

func TestHandleCommand_NotLoggedIn(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ctrl.HandleCommand(context.Background(), "1"), ErrNotLoggedIn)
}

func TestMenu_LeaderboardNeverCallsOracle(t *testing.T) {
	f := loggedIn(t)
	before := len(f.ctrl.History())

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "2"))

	history := f.ctrl.History()
	require.Len(t, history, before+2)
	assert.Equal(t, RoleUser, history[before].Role)
	assert.Equal(t, "2", history[before].Body)
	assert.Equal(t, RoleSystem, history[before+1].Role)
	assert.Empty(t, f.oracle.Calls())
}

func TestMenu_Status(t *testing.T) {
	f := loggedIn(t)

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "3"))

	last := lastMessage(t, f.ctrl)
	assert.Equal(t, RoleSystem, last.Role)
	assert.Contains(t, last.Body, "recruit")
	assert.Contains(t, last.Body, "3.0")
	assert.Empty(t, f.oracle.Calls())
}

func TestMenu_RejectsUnknownInput(t *testing.T) {
	f := loggedIn(t)
	before := len(f.ctrl.History())

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "fight me"))

	history := f.ctrl.History()
	require.Len(t, history, before+2)
	assert.Equal(t, RoleUser, history[before].Role)
	assert.Equal(t, "fight me", history[before].Body)
	assert.Equal(t, RoleSystem, history[before+1].Role)
	assert.Equal(t, []Cue{CueNegative}, f.cues)
	assert.Empty(t, f.oracle.Calls())
}

func TestIntroExchange_ReplacesHistory(t *testing.T) {
	f := loggedIn(t)
	f.oracle.Script("First question: why is the sky blue?")

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "1"))

	assert.Equal(t, ModeTraining, f.ctrl.Mode())
	history := f.ctrl.History()
	require.Len(t, history, 1)
	assert.Equal(t, RoleTeacher, history[0].Role)
	assert.Equal(t, "First question: why is the sky blue?", history[0].Body)
	require.NotEmpty(t, history[0].QuickActions)
	assert.Equal(t, TokenMenu, history[0].QuickActions[0].Token)
	assert.False(t, f.ctrl.Busy())
}

func TestIntroExchange_FailureReplacesHistory(t *testing.T) {
	f := loggedIn(t)
	f.oracle.Fail(errors.New("network down"))

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "1"))

	history := f.ctrl.History()
	require.Len(t, history, 1)
	assert.Equal(t, RoleSystem, history[0].Role)
	assert.Equal(t, MaxLives, f.ctrl.Lives())
	assert.Equal(t, 0, f.ctrl.Score())
	assert.False(t, f.ctrl.Busy())
}

func TestTrainingExchange_Pass(t *testing.T) {
	f := inTraining(t)
	f.oracle.Script("[PASS] Acceptable. Next.")

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "channels are typed conduits"))

	assert.Equal(t, 100, f.ctrl.Score())
	assert.Equal(t, MaxLives, f.ctrl.Lives())

	last := lastMessage(t, f.ctrl)
	assert.Equal(t, RoleTeacher, last.Role)
	assert.Equal(t, "Acceptable. Next.", last.Body)
	assert.Contains(t, f.cues, CuePositive)

	// The user's answer was forwarded verbatim.
	calls := f.oracle.Calls()
	assert.Equal(t, "channels are typed conduits", calls[len(calls)-1])
}

func TestTrainingExchange_Fail(t *testing.T) {
	f := inTraining(t)
	f.oracle.Script("[FAIL] Nonsense.")

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "magic"))

	assert.Equal(t, MaxLives-FailDamage, f.ctrl.Lives())
	assert.Equal(t, 0, f.ctrl.Score())
	assert.Contains(t, f.cues, CueNegative)
}

func TestTrainingExchange_BothMarkers(t *testing.T) {
	f := inTraining(t)
	f.oracle.Script("[PASS] [FAIL] contradictory")

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "answer"))

	// Independent checks: both effects apply.
	assert.Equal(t, MaxLives-FailDamage, f.ctrl.Lives())
	assert.Equal(t, 100, f.ctrl.Score())
}

func TestTrainingExchange_OracleFailure(t *testing.T) {
	f := inTraining(t)
	f.oracle.Fail(errors.New("boom"))

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "answer"))

	last := lastMessage(t, f.ctrl)
	assert.Equal(t, RoleSystem, last.Role)
	assert.Equal(t, MaxLives, f.ctrl.Lives())
	assert.Equal(t, 0, f.ctrl.Score())
	assert.False(t, f.ctrl.Busy())
}

func TestHint_ChargesScoreWhenAffordable(t *testing.T) {
	f := inTraining(t)

	// Earn 100 first.
	f.oracle.Script("[PASS] fine")
	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "a"))
	require.Equal(t, 100, f.ctrl.Score())

	f.oracle.Script("Here is your hint. Disappointing.")
	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "hint"))

	assert.Equal(t, 50, f.ctrl.Score())
	assert.Equal(t, MaxLives, f.ctrl.Lives())

	last := lastMessage(t, f.ctrl)
	assert.Equal(t, RoleTeacher, last.Role)
	assert.Equal(t, "Here is your hint. Disappointing.", last.Body)
}

func TestHint_ChargesLivesWhenScoreShort(t *testing.T) {
	f := inTraining(t)
	f.oracle.Script("A hint, since you insist.")

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "help"))

	assert.Equal(t, 0, f.ctrl.Score())
	assert.Equal(t, MaxLives-HintLifeCost, f.ctrl.Lives())
}

func TestHint_ReplyNeverClassified(t *testing.T) {
	f := inTraining(t)
	f.oracle.Script("[PASS] this marker must not score")

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "hint"))

	// Only the upfront charge applies; the marker is left alone.
	assert.Equal(t, 0, f.ctrl.Score())
	assert.Equal(t, MaxLives-HintLifeCost, f.ctrl.Lives())
	assert.Equal(t, "[PASS] this marker must not score", lastMessage(t, f.ctrl).Body)
}

func TestHint_ChargeSurvivesOracleFailure(t *testing.T) {
	f := inTraining(t)
	f.oracle.Fail(errors.New("down"))

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "hint"))

	assert.Equal(t, MaxLives-HintLifeCost, f.ctrl.Lives())
	assert.Equal(t, RoleSystem, lastMessage(t, f.ctrl).Role)
	assert.False(t, f.ctrl.Busy())
}

func TestMenuToken_PrecedesHintHandling(t *testing.T) {
	f := inTraining(t)

	require.NoError(t, f.ctrl.HandleCommand(context.Background(), "  MENU  "))

	assert.Equal(t, ModeMenu, f.ctrl.Mode())
	last := lastMessage(t, f.ctrl)
	assert.Equal(t, RoleSystem, last.Role)
	assert.Contains(t, last.Body, "1) Start training")

	// No oracle call happened for the mode switch.
	assert.Len(t, f.oracle.Calls(), 1) // just the intro
}

func TestExam(t *testing.T) {
	f := inTraining(t)
	f.oracle.Script("[PASS] Exam passed, barely.")
	before := len(f.ctrl.History())

	require.NoError(t, f.ctrl.RequestExam(context.Background()))

	assert.Equal(t, 100, f.ctrl.Score())
	assert.Equal(t, MaxLives, f.ctrl.Lives())

	history := f.ctrl.History()
	require.Len(t, history, before+2)
	assert.Equal(t, RoleSystem, history[before].Role) // exam starting
	assert.Equal(t, RoleTeacher, history[before+1].Role)
}

func TestExam_MenuModeRejected(t *testing.T) {
	f := loggedIn(t)
	assert.ErrorIs(t, f.ctrl.RequestExam(context.Background()), ErrNotInTraining)
	assert.Empty(t, f.oracle.Calls())
}

func TestGameOver_CommitsOnce(t *testing.T) {
	f := inTraining(t)
	ctx := context.Background()

	// Earn some score, then burn all three lives.
	f.oracle.Script("[PASS] ok", "[FAIL] no", "[FAIL] no", "[FAIL] no")
	require.NoError(t, f.ctrl.HandleCommand(ctx, "good answer"))
	for i := 0; i < 3; i++ {
		require.NoError(t, f.ctrl.HandleCommand(ctx, "bad answer"))
	}

	assert.Equal(t, 0.0, f.ctrl.Lives())
	assert.Equal(t, PhaseHalted, f.ctrl.Phase())

	// Terminal message rendered last.
	last := lastMessage(t, f.ctrl)
	assert.Equal(t, RoleSystem, last.Role)
	assert.Contains(t, last.Body, "recruit")

	// Entry persisted.
	board, err := f.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, leaderboard.Entry{Name: "recruit", Score: 100}, board[0])

	// Further commands are inert: no messages, no oracle calls,
	// no second commit.
	histLen := len(f.ctrl.History())
	callCount := len(f.oracle.Calls())
	require.NoError(t, f.ctrl.HandleCommand(ctx, "let me back in"))
	require.NoError(t, f.ctrl.HandleCommand(ctx, "hint"))
	require.NoError(t, f.ctrl.RequestExam(ctx))
	assert.Len(t, f.ctrl.History(), histLen)
	assert.Len(t, f.oracle.Calls(), callCount)

	board, err = f.store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, board, 1)
}

func TestGameOver_LivesNeverNegative(t *testing.T) {
	f := inTraining(t)
	ctx := context.Background()

	f.oracle.Script("[FAIL] no")
	for i := 0; i < 3; i++ {
		require.NoError(t, f.ctrl.HandleCommand(ctx, "bad"))
	}

	assert.Equal(t, 0.0, f.ctrl.Lives())
}

func TestGameOver_ByHintCharge(t *testing.T) {
	f := inTraining(t)
	ctx := context.Background()

	// Two fails leave half a life after five hint charges... simpler:
	// burn 2.5 lives with fails and hints, then one last hint.
	f.oracle.Script("[FAIL] no", "[FAIL] no", "hint text")
	require.NoError(t, f.ctrl.HandleCommand(ctx, "bad"))
	require.NoError(t, f.ctrl.HandleCommand(ctx, "bad"))
	require.NoError(t, f.ctrl.HandleCommand(ctx, "hint"))
	require.Equal(t, 0.5, f.ctrl.Lives())

	require.NoError(t, f.ctrl.HandleCommand(ctx, "hint"))

	assert.Equal(t, 0.0, f.ctrl.Lives())
	assert.Equal(t, PhaseHalted, f.ctrl.Phase())

	// The hint reply still landed before the terminal message.
	history := f.ctrl.History()
	require.True(t, len(history) >= 2)
	assert.Equal(t, RoleSystem, history[len(history)-1].Role)
	assert.Equal(t, RoleTeacher, history[len(history)-2].Role)
}

func TestRestart(t *testing.T) {
	f := inTraining(t)
	ctx := context.Background()

	f.oracle.Script("[FAIL] no")
	for i := 0; i < 3; i++ {
		require.NoError(t, f.ctrl.HandleCommand(ctx, "bad"))
	}
	require.Equal(t, PhaseHalted, f.ctrl.Phase())

	f.ctrl.Restart()

	assert.Equal(t, PhaseActive, f.ctrl.Phase())
	assert.Equal(t, ModeMenu, f.ctrl.Mode())
	assert.Equal(t, MaxLives, f.ctrl.Lives())
	assert.Equal(t, 0, f.ctrl.Score())
	assert.False(t, f.ctrl.Busy())

	history := f.ctrl.History()
	require.Len(t, history, 1)
	assert.Contains(t, history[0].Body, "recruit")

	// Idempotent.
	f.ctrl.Restart()
	assert.Equal(t, PhaseActive, f.ctrl.Phase())

	// A fresh episode can game-over and commit again.
	f.oracle.Script("intro", "[FAIL] no")
	require.NoError(t, f.ctrl.HandleCommand(ctx, "1"))
	for i := 0; i < 3; i++ {
		require.NoError(t, f.ctrl.HandleCommand(ctx, "bad"))
	}
	assert.Equal(t, PhaseHalted, f.ctrl.Phase())

	board, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, board, 2)
}

func TestLeaderboard_LoadsPersistedBoard(t *testing.T) {
	store, err := leaderboard.NewFileStore(filepath.Join(t.TempDir(), "board.json"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	seed := leaderboard.Board{{Name: "veteran", Score: 900}}
	require.NoError(t, store.Save(context.Background(), seed))

	ctrl := New(context.Background(), Options{
		Oracle: oracle.NewMockOracle(),
		Store:  store,
	})

	board := ctrl.Leaderboard()
	require.Len(t, board, 1)
	assert.Equal(t, "veteran", board[0].Name)
}

func TestHistory_ReturnsCopy(t *testing.T) {
	f := loggedIn(t)

	history := f.ctrl.History()
	history[0].Body = "tampered"

	assert.NotEqual(t, "tampered", f.ctrl.History()[0].Body)
}

// blockingOracle parks in Send until released, to hold the controller
// in its busy window.
type blockingOracle struct {
	entered chan struct{}
	release chan struct{}
	reply   string
}

func newBlockingOracle(reply string) *blockingOracle {
	return &blockingOracle{
		entered: make(chan struct{}, 4),
		release: make(chan struct{}),
		reply:   reply,
	}
}

func (o *blockingOracle) Name() string { return "blocking" }

func (o *blockingOracle) Send(ctx context.Context, prompt string) (string, error) {
	o.entered <- struct{}{}
	select {
	case <-o.release:
		return o.reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestBusy_SecondCommandRejected(t *testing.T) {
	store, err := leaderboard.NewFileStore(filepath.Join(t.TempDir(), "board.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	blocking := newBlockingOracle("First question: what is a goroutine?")
	ctrl := New(context.Background(), Options{Oracle: blocking, Store: store})
	require.NoError(t, ctrl.Login("recruit"))

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- ctrl.HandleCommand(ctx, "1") }()

	<-blocking.entered
	assert.True(t, ctrl.Busy())

	// Training mode is entered before the oracle round trip, so these
	// land in the training flows and must bounce while one is in flight.
	assert.ErrorIs(t, ctrl.HandleCommand(ctx, "an answer"), ErrBusy)
	assert.ErrorIs(t, ctrl.RequestExam(ctx), ErrBusy)

	close(blocking.release)
	require.NoError(t, <-done)
	assert.False(t, ctrl.Busy())

	// With the release channel closed the oracle no longer blocks, so
	// the next command goes straight through.
	require.NoError(t, ctrl.HandleCommand(ctx, "channels"))
	assert.False(t, ctrl.Busy())
}
