package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestLevelFilter(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeModule, false},
		{LevelDetail, ScopeModule, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	if err != nil || lvl != LevelDebug {
		t.Fatalf("ParseLevel(DEBUG) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	span := Begin(tr, ScopePass, "sema", 0)
	Point(tr, ScopeNode, "node:Expression", "+", span.ID())
	span.WithExtra("errors", "0").End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ sema") || !strings.Contains(out, "← sema (ok) {errors=0}") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
	if strings.Contains(out, "node:Expression") {
		t.Fatalf("node events must be filtered at phase level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "node:IntLiteral", "42", 7)

	var got map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("invalid ndjson %q: %v", buf.String(), err)
	}
	if got["name"] != "node:IntLiteral" || got["kind"] != "point" || got["scope"] != "node" {
		t.Fatalf("unexpected event %v", got)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeNode, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Fatalf("snapshot[%d] = %q, want %q", i, snap[i].Name, want)
		}
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(8, LevelPhase)
	m := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatText), ring)
	Begin(m, ScopeDriver, "build", 0).End("")
	if len(ring.Snapshot()) != 2 {
		t.Fatalf("ring must see begin and end")
	}
	if strings.Count(buf.String(), "build") != 2 {
		t.Fatalf("stream must see begin and end:\n%s", buf.String())
	}
	if m.Ring() != ring {
		t.Fatalf("Ring must return the ring child")
	}
}

func TestDisabledSpanIsInert(t *testing.T) {
	span := Begin(Nop, ScopePass, "sema", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatalf("nop span must be inert")
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff must produce a disabled tracer")
	}
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
	ring := NewRingTracer(4, LevelDebug)
	ctx = WithParentSpan(WithTracer(ctx, ring), 42)
	if FromContext(ctx) != Tracer(ring) || ParentSpan(ctx) != 42 {
		t.Fatalf("context must carry tracer and parent span")
	}
}

func TestNewSelectsSinksByMode(t *testing.T) {
	var buf bytes.Buffer
	cases := []struct {
		mode StorageMode
		want string
	}{
		{ModeStream, "*trace.StreamTracer"},
		{ModeRing, "*trace.RingTracer"},
		{ModeBoth, "*trace.MultiTracer"},
	}
	for _, tc := range cases {
		tr, err := New(Config{Level: LevelPhase, Mode: tc.mode, Output: &buf})
		if err != nil {
			t.Fatalf("New(%s): %v", tc.mode, err)
		}
		if got := fmt.Sprintf("%T", tr); got != tc.want {
			t.Fatalf("New(%s) = %s, want %s", tc.mode, got, tc.want)
		}
	}
	if _, err := New(Config{Level: LevelPhase}); err == nil {
		t.Fatalf("missing mode must be rejected")
	}
	if m, err := ParseMode(" Both "); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode(Both) = %v, %v", m, err)
	}
}

func TestSpanEndCarriesDuration(t *testing.T) {
	ring := NewRingTracer(4, LevelPhase)
	Begin(ring, ScopePass, "emit", 0).End("")
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[1].Kind != KindSpanEnd || snap[1].Dur < 0 {
		t.Fatalf("unexpected events %+v", snap)
	}
}
