package status

import (
	"errors"
	"testing"
)

func TestAccept_DropsEmptyIdentifiers(t *testing.T) {
	tr := NewTracker()

	if tr.Accept("") {
		t.Error("expected empty identifier to be dropped")
	}
	if tr.Accept("   ") {
		t.Error("expected whitespace identifier to be dropped")
	}
	if !tr.Accept("KEY1AAAA") {
		t.Error("expected non-empty identifier to be accepted")
	}

	if tr.Len() != 1 {
		t.Fatalf("expected 1 tracked item, got %d", tr.Len())
	}
	if got := tr.Results(); len(got) != 1 || got[0].Identifier() != "KEY1AAAA" {
		t.Errorf("unexpected results: %+v", got)
	}
}

func TestAccept_TrimsWhitespace(t *testing.T) {
	tr := NewTracker()
	tr.Accept("  ABC12345  ")

	results := tr.Results()
	if results[0].Identifier() != "ABC12345" {
		t.Errorf("expected trimmed identifier, got %q", results[0].Identifier())
	}
}

func TestResults_PreservesInputOrder(t *testing.T) {
	tr := NewTracker()
	ids := []string{"charlie", "alpha", "bravo"}
	for _, id := range ids {
		tr.Accept(id)
	}
	tr.Complete("alpha", "done")
	tr.Fail("charlie", "broken", nil)

	results := tr.Results()
	for i, want := range ids {
		if results[i].Identifier() != want {
			t.Errorf("result[%d] = %q, want %q", i, results[i].Identifier(), want)
		}
	}
}

func TestTransitions_OnlyFromPending(t *testing.T) {
	tr := NewTracker()
	tr.Accept("item")

	tr.Warn("item", "skipped")
	tr.Complete("item", "done")
	tr.Fail("item", "broken", errors.New("boom"))

	r := tr.Results()[0]
	if r.Outcome() != Warning {
		t.Errorf("expected first transition to stick, got %s", r.Outcome())
	}
	if r.Detail() != "skipped" {
		t.Errorf("unexpected detail: %q", r.Detail())
	}
}

func TestPending_ReturnsSurvivorsInOrder(t *testing.T) {
	tr := NewTracker()
	for _, id := range []string{"a", "b", "c", "d"} {
		tr.Accept(id)
	}
	tr.Warn("b", "skip")
	tr.Fail("d", "bad", nil)

	got := tr.Pending()
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("unexpected pending set: %v", got)
	}
}

func TestFailPending_ReconcilesSurvivors(t *testing.T) {
	cause := errors.New("batch call failed")
	tr := NewTracker()
	tr.Accept("a")
	tr.Accept("b")
	tr.Warn("a", "skip")

	tr.FailPending("creation failed", cause)

	results := tr.Results()
	if results[0].Outcome() != Warning {
		t.Errorf("expected warned item untouched, got %s", results[0].Outcome())
	}
	if results[1].Outcome() != Failed {
		t.Errorf("expected pending item failed, got %s", results[1].Outcome())
	}
	if !errors.Is(results[1].Cause(), cause) {
		t.Errorf("expected cause preserved, got %v", results[1].Cause())
	}
}

func TestCompletePending(t *testing.T) {
	tr := NewTracker()
	tr.Accept("a")
	tr.Accept("b")
	tr.Fail("a", "bad", nil)

	tr.CompletePending("added")

	results := tr.Results()
	if results[0].Outcome() != Failed {
		t.Errorf("expected failed item untouched, got %s", results[0].Outcome())
	}
	if results[1].Outcome() != Complete || results[1].Detail() != "added" {
		t.Errorf("expected pending item completed, got %s %q", results[1].Outcome(), results[1].Detail())
	}
}

func TestCause_SetOnlyOnFailed(t *testing.T) {
	tr := NewTracker()
	tr.Accept("ok")
	tr.Accept("warn")
	tr.Complete("ok", "done")
	tr.Warn("warn", "skipped")

	for _, r := range tr.Results() {
		if r.Cause() != nil {
			t.Errorf("item %q: expected nil cause, got %v", r.Identifier(), r.Cause())
		}
	}
}
