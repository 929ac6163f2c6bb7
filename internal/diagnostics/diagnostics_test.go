package diagnostics

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cobalt-lang/cobalt/internal/lexer/token"
)

func TestCollectorSeverity(t *testing.T) {
	pos := token.NewPosition("test.co", 3, 2)

	tests := []struct {
		codes     []int
		hasErrors bool
	}{
		{nil, false},
		{[]int{1, 99}, false},
		{[]int{99, 100}, true},
		{[]int{CONSECUTIVE_PERIODS}, true},
	}

	for _, test := range tests {
		collector := NewCollector()
		for _, code := range test.codes {
			collector.Report(New(pos, code, "message"))
		}
		if collector.HasErrors() != test.hasErrors {
			t.Errorf("codes %v: expected HasErrors() == %v", test.codes, test.hasErrors)
		}
		err := collector.Err()
		if test.hasErrors && !errors.Is(err, ErrCompilerErrorFound) {
			t.Errorf("codes %v: expected ErrCompilerErrorFound, got %v", test.codes, err)
		}
		if !test.hasErrors && err != nil {
			t.Errorf("codes %v: expected no error, got %v", test.codes, err)
		}
	}
}

func TestDiagString(t *testing.T) {
	pos := token.NewPosition("test.co", 5, 1)
	diag := New(pos, CONSECUTIVE_PERIODS, "identifier cannot contain consecutive periods").
		Note(pos, "Did you accidentally type two?")

	collector := NewCollector()
	collector.Report(diag)

	var buf bytes.Buffer
	collector.Print(&buf)
	out := buf.String()

	if !strings.HasPrefix(out, "error[211]: test.co:1:5: identifier cannot contain consecutive periods") {
		t.Errorf("unexpected rendering: %q", out)
	}
	if !strings.Contains(out, "note: test.co:1:5: Did you accidentally type two?") {
		t.Errorf("expected note in rendering: %q", out)
	}
}
