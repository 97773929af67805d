package game

import (
	"fmt"
	"strings"

	"github.com/drillgo-dev/drillgo/pkg/leaderboard"
)

// Fixed oracle prompts. Their wording is a tone choice, not a contract;
// the session core only cares that each flow sends exactly one of them.
const (
	introPrompt = "You are a strict drill instructor running a rapid-fire training " +
		"session. Greet the recruit curtly, then immediately pose the first " +
		"technical question. Grade every answer you receive: prefix with [PASS] " +
		"if acceptable, [FAIL] if not, then pose the next question."

	hintPrompt = "The recruit is begging for a hint on the current question. Give " +
		"one grudgingly and make it clear this weakness has been noted. Do not " +
		"grade this reply with [PASS] or [FAIL]."

	examPrompt = "Time for a surprise exam. Pose a single hard question that " +
		"combines everything covered so far. Grade the eventual answer with " +
		"[PASS] or [FAIL] as usual."
)

func welcomeBody(identifier string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome, %s.\n\n", identifier)
	b.WriteString("What will it be?\n")
	b.WriteString("  1) Start training\n")
	b.WriteString("  2) Leaderboard\n")
	b.WriteString("  3) Status\n\n")
	b.WriteString("Type \"menu\" at any time to come back here.")
	return b.String()
}

func rejectionBody(input string) string {
	return fmt.Sprintf("%q is not an option. Pick 1, 2 or 3.", input)
}

const examStartingBody = "Exam starting. No hints, no mercy."

const oracleFailureBody = "The teacher is unreachable. Try again in a moment."

func statusBody(identifier string, lives float64, score int) string {
	return fmt.Sprintf("Recruit: %s\nLives: %.1f\nScore: %d", identifier, lives, score)
}

func leaderboardBody(board leaderboard.Board) string {
	if len(board) == 0 {
		return "The leaderboard is empty. Nobody has washed out yet."
	}

	var b strings.Builder
	b.WriteString("Leaderboard\n")
	for i, e := range board {
		fmt.Fprintf(&b, "%2d. %-20s %6d\n", i+1, e.Name, e.Score)
	}
	return strings.TrimRight(b.String(), "\n")
}

func gameOverBody(board leaderboard.Board) string {
	var b strings.Builder
	b.WriteString("You're out of lives. Training is suspended.\n\n")
	b.WriteString(leaderboardBody(board))
	b.WriteString("\n\nRestart to try again.")
	return b.String()
}
