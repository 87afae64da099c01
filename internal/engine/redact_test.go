package engine

import (
	"testing"

	"github.com/silexa/boardcore/internal/board"
)

func TestRedactorScrubsBoardSecret(t *testing.T) {
	b := board.New("b1", "test")
	b.Variables["v1"] = board.Variable{ID: "v1", Name: "token", Secret: true, DefaultValue: []byte("sk-live-12345")}

	r := NewRedactor(b, RunPayload{})
	got := r.Scrub("connecting with sk-live-12345 now")
	if got != "connecting with [redacted] now" {
		t.Fatalf("unexpected scrub result: %q", got)
	}
}

func TestRedactorScrubsRuntimeSuppliedSecret(t *testing.T) {
	b := board.New("b1", "test")
	payload := RunPayload{RuntimeVariables: map[string]board.Variable{
		"v1": {ID: "v1", Name: "token", Secret: true, DefaultValue: []byte("hunter2")},
	}}
	r := NewRedactor(b, payload)
	if got := r.Scrub("password is hunter2"); got != "password is [redacted]" {
		t.Fatalf("unexpected scrub result: %q", got)
	}
}

func TestRedactorScrubsSensitivePinDefault(t *testing.T) {
	b := board.New("b1", "test")
	b.Nodes["n1"] = board.Node{ID: "n1", Name: "n1", Pins: map[string]board.Pin{
		"p1": {ID: "p1", Name: "api_key", DefaultValue: []byte("pin-default-secret"), Options: &board.PinOptions{Sensitive: true}},
	}}

	r := NewRedactor(b, RunPayload{})
	if got := r.Scrub("value: pin-default-secret"); got != "value: [redacted]" {
		t.Fatalf("unexpected scrub result: %q", got)
	}
}

func TestRedactorScrubsSensitivePinRuntimeInput(t *testing.T) {
	b := board.New("b1", "test")
	b.Nodes["n1"] = board.Node{ID: "n1", Name: "n1", Pins: map[string]board.Pin{
		"p1": {ID: "p1", Name: "api_key", Options: &board.PinOptions{Sensitive: true}},
	}}

	payload := RunPayload{Inputs: map[string][]byte{"p1": []byte("runtime-supplied-secret")}}
	r := NewRedactor(b, payload)
	if got := r.Scrub("value: runtime-supplied-secret"); got != "value: [redacted]" {
		t.Fatalf("unexpected scrub result: %q", got)
	}
}

func TestRedactorIgnoresInputsForNonSensitivePins(t *testing.T) {
	b := board.New("b1", "test")
	b.Nodes["n1"] = board.Node{ID: "n1", Name: "n1", Pins: map[string]board.Pin{
		"p1": {ID: "p1", Name: "count"},
	}}

	payload := RunPayload{Inputs: map[string][]byte{"p1": []byte("42")}}
	r := NewRedactor(b, payload)
	if got := r.Scrub("value: 42"); got != "value: 42" {
		t.Fatalf("expected no redaction of a non-sensitive pin's input, got %q", got)
	}
}

func TestRedactorIgnoresNonSecretValues(t *testing.T) {
	b := board.New("b1", "test")
	b.Variables["v1"] = board.Variable{ID: "v1", Name: "public", DefaultValue: []byte("not-a-secret")}

	r := NewRedactor(b, RunPayload{})
	if got := r.Scrub("value: not-a-secret"); got != "value: not-a-secret" {
		t.Fatalf("expected no redaction of non-secret variable, got %q", got)
	}
}

func TestRedactorScrubFieldsAppliesToEveryValue(t *testing.T) {
	b := board.New("b1", "test")
	b.Variables["v1"] = board.Variable{ID: "v1", Name: "token", Secret: true, DefaultValue: []byte("topsecret")}
	r := NewRedactor(b, RunPayload{})

	fields := map[string]string{"error": "auth failed: topsecret", "node": "n1"}
	got := r.ScrubFields(fields)
	if got["error"] != "auth failed: [redacted]" {
		t.Fatalf("expected error field scrubbed, got %q", got["error"])
	}
	if got["node"] != "n1" {
		t.Fatalf("expected unrelated field untouched, got %q", got["node"])
	}
}

func TestRedactorNilIsSafe(t *testing.T) {
	var r *Redactor
	if got := r.Scrub("anything"); got != "anything" {
		t.Fatalf("expected nil redactor to pass through, got %q", got)
	}
	fields := map[string]string{"a": "b"}
	if got := r.ScrubFields(fields); got["a"] != "b" {
		t.Fatalf("expected nil redactor to pass fields through unchanged")
	}
}
