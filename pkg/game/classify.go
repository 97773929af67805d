package game

import "strings"

const (
	failMarker = "[FAIL]"
	passMarker = "[PASS]"
)

// Outcome is the graded result extracted from an oracle reply.
type Outcome struct {
	Pass bool
	Fail bool
}

// Classify strips the in-band grading markers from an oracle reply and
// reports which ones were present. The markers are checked
// independently; a reply carrying both triggers both effects.
func Classify(raw string) (string, Outcome) {
	var outcome Outcome
	text, found := stripMarker(raw, failMarker)
	outcome.Fail = found
	text, found = stripMarker(text, passMarker)
	outcome.Pass = found
	return text, outcome
}

// stripMarker removes every occurrence of marker together with the
// whitespace around it. Fragments on both sides are rejoined with a
// single space so a mid-sentence marker leaves no double gap.
func stripMarker(text, marker string) (string, bool) {
	found := false
	for {
		i := strings.Index(text, marker)
		if i < 0 {
			break
		}
		found = true
		before := strings.TrimRight(text[:i], " \t")
		after := strings.TrimLeft(text[i+len(marker):], " \t")
		if before == "" || after == "" {
			text = before + after
		} else {
			text = before + " " + after
		}
	}
	return strings.TrimSpace(text), found
}
