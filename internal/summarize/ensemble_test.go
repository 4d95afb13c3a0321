package summarize

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const fir = "The complainant filed an FIR at the police station. The accused Ravi Kumar " +
	"was seen near the warehouse on the night of the theft. Two witnesses testified " +
	"that the accused broke the lock. The stolen goods were recovered from the house " +
	"of the accused. The police registered the case under IPC Section 379. The court " +
	"directed the investigating officer to submit the charge sheet. Bail was denied " +
	"because the accused had a prior record. The trial is listed for next month."

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	got := SplitSentences("First. Second! Third? Fourth")
	want := []string{"First.", "Second!", "Third?", "Fourth"}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}

	if s := SplitSentences("   "); len(s) != 0 {
		t.Errorf("expected no sentences for whitespace, got %v", s)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	t.Parallel()

	e := NewEnsemble(nil)
	for _, in := range []string{"", "   ", "\t\n"} {
		if got := e.Summarize(in, DefaultSentenceCount); got != NoContent {
			t.Errorf("Summarize(%q) = %q, want sentinel", in, got)
		}
	}
}

func TestSummarizeNonEmpty(t *testing.T) {
	t.Parallel()

	e := NewEnsemble(nil)
	out := e.Summarize(fir, DefaultSentenceCount)
	if strings.TrimSpace(out) == "" {
		t.Fatal("expected non-empty summary")
	}
	if len([]rune(out)) > MaxSummaryChars {
		t.Fatalf("summary exceeds cap: %d chars", len([]rune(out)))
	}
	// Every selected sentence must come from the input verbatim.
	for _, s := range SplitSentences(out) {
		if !strings.Contains(fir, s) {
			t.Errorf("summary sentence not extractive: %q", s)
		}
	}
}

func TestSummarizeTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("The witness described the scene in considerable detail to the court. ", 100)
	e := NewEnsemble(nil)
	out := e.Summarize(long, DefaultSentenceCount)
	if n := len([]rune(out)); n > MaxSummaryChars {
		t.Fatalf("got %d chars, cap is %d", n, MaxSummaryChars)
	}
}

type fakeStrategy struct {
	name  string
	out   []string
	err   error
	panic bool
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Select([]string, int) ([]string, error) {
	if f.panic {
		panic("strategy blew up")
	}
	return f.out, f.err
}

func TestCombinationPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		strategies []Strategy
		want       string
	}{
		{
			name: "first two chunks in declaration order",
			strategies: []Strategy{
				&fakeStrategy{name: "a", out: []string{"Alpha one", "Alpha two"}},
				&fakeStrategy{name: "b", out: []string{"Beta one"}},
				&fakeStrategy{name: "c", out: []string{"Gamma one"}},
			},
			want: "Alpha one Alpha two Beta one",
		},
		{
			name: "failed member skipped",
			strategies: []Strategy{
				&fakeStrategy{name: "a", err: errors.New("boom")},
				&fakeStrategy{name: "b", out: []string{"Beta one"}},
				&fakeStrategy{name: "c", out: []string{"Gamma one"}},
			},
			want: "Beta one Gamma one",
		},
		{
			name: "panicking member swallowed",
			strategies: []Strategy{
				&fakeStrategy{name: "a", panic: true},
				&fakeStrategy{name: "b", out: []string{"Beta one"}},
			},
			want: "Beta one",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := &Ensemble{strategies: tt.strategies, logger: testLogger()}
			if got := e.Summarize("Some input text here.", 6); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarizeFallback(t *testing.T) {
	t.Parallel()

	// All members fail: result degrades to the first N sentences of the input.
	e := &Ensemble{
		strategies: []Strategy{
			&fakeStrategy{name: "a", err: errors.New("down")},
			&fakeStrategy{name: "b", panic: true},
			&fakeStrategy{name: "c", err: errors.New("down")},
		},
		logger: testLogger(),
	}
	in := "One ruling. Two motions. Three exhibits. Four orders."
	got := e.Summarize(in, 2)
	if got != "One ruling. Two motions." {
		t.Errorf("fallback = %q", got)
	}

	// No sentence boundaries at all: degrade to leading characters.
	raw := strings.Repeat("x", 3000)
	got = e.Summarize(raw, 2)
	if got == "" {
		t.Fatal("fallback must never be empty for non-empty input")
	}
	if len([]rune(got)) != MaxSummaryChars {
		t.Errorf("expected %d chars, got %d", MaxSummaryChars, len([]rune(got)))
	}
}

func TestStrategiesSelectInDocumentOrder(t *testing.T) {
	t.Parallel()

	sentences := SplitSentences(fir)
	for _, st := range []Strategy{newCentrality(), newRank(), newLatent()} {
		sel, err := st.Select(sentences, 3)
		if err != nil {
			t.Fatalf("%s: %v", st.Name(), err)
		}
		if len(sel) == 0 || len(sel) > 3 {
			t.Fatalf("%s selected %d sentences", st.Name(), len(sel))
		}
		last := -1
		for _, s := range sel {
			pos := indexOf(sentences, s)
			if pos < 0 {
				t.Fatalf("%s returned unknown sentence %q", st.Name(), s)
			}
			if pos < last {
				t.Errorf("%s output not in document order", st.Name())
			}
			last = pos
		}
	}
}

func TestStrategiesEmptyInput(t *testing.T) {
	t.Parallel()

	for _, st := range []Strategy{newCentrality(), newRank(), newLatent()} {
		if _, err := st.Select(nil, 3); err == nil {
			t.Errorf("%s: expected error for no sentences", st.Name())
		}
	}
}

func indexOf(haystack []string, needle string) int {
	for i, s := range haystack {
		if s == needle {
			return i
		}
	}
	return -1
}
