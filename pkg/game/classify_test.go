package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantText string
		want     Outcome
	}{
		{
			name:     "no markers",
			raw:      "Explain the difference between a slice and an array.",
			wantText: "Explain the difference between a slice and an array.",
			want:     Outcome{},
		},
		{
			name:     "pass marker stripped",
			raw:      "[PASS] Correct. Next question.",
			wantText: "Correct. Next question.",
			want:     Outcome{Pass: true},
		},
		{
			name:     "fail marker stripped",
			raw:      "[FAIL] Wrong. Think harder.",
			wantText: "Wrong. Think harder.",
			want:     Outcome{Fail: true},
		},
		{
			name:     "marker mid-text leaves single space",
			raw:      "Hmm. [PASS] Barely.",
			wantText: "Hmm. Barely.",
			want:     Outcome{Pass: true},
		},
		{
			name:     "marker glued to text",
			raw:      "Good.[PASS]Next question.",
			wantText: "Good. Next question.",
			want:     Outcome{Pass: true},
		},
		{
			name:     "marker padded with tabs",
			raw:      "Wrong.\t[FAIL]\tAgain.",
			wantText: "Wrong. Again.",
			want:     Outcome{Fail: true},
		},
		{
			name:     "both markers trigger both effects",
			raw:      "[PASS] [FAIL] confusing reply",
			wantText: "confusing reply",
			want:     Outcome{Pass: true, Fail: true},
		},
		{
			name:     "repeated marker",
			raw:      "[FAIL][FAIL] twice as wrong",
			wantText: "twice as wrong",
			want:     Outcome{Fail: true},
		},
		{
			name:     "empty input",
			raw:      "",
			wantText: "",
			want:     Outcome{},
		},
		{
			name:     "marker only",
			raw:      "[PASS]",
			wantText: "",
			want:     Outcome{Pass: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, outcome := Classify(tt.raw)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.want, outcome)
		})
	}
}
