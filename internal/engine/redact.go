package engine

import (
	"strings"

	"github.com/silexa/boardcore/internal/board"
)

// Redactor strips the raw values of secret/sensitive variables out of
// anything emitted on the intercom event stream (spec.md §8 property
// 6: no string field may contain a secret variable's raw
// default_value).
type Redactor struct {
	secrets []string
}

// NewRedactor collects every value that must never leave a run's
// event stream in the clear: secret=true variables (declared and
// runtime-supplied) and sensitive=true pin values, both the pin's own
// default and any value a caller supplies for it at runtime
// (spec.md §5: "secret=true or sensitive=true values must be scrubbed
// from any log/intercom event payload").
func NewRedactor(b *board.Board, payload RunPayload) *Redactor {
	r := &Redactor{}
	add := func(v []byte) {
		if len(v) > 0 {
			r.secrets = append(r.secrets, string(v))
		}
	}

	for _, v := range b.Variables {
		if v.Secret {
			add(v.DefaultValue)
		}
	}
	for _, v := range payload.RuntimeVariables {
		if v.Secret {
			add(v.DefaultValue)
		}
	}

	sensitivePins := map[string]struct{}{}
	scanPins := func(pins map[string]board.Pin) {
		for id, p := range pins {
			if p.Options != nil && p.Options.Sensitive {
				sensitivePins[id] = struct{}{}
				add(p.DefaultValue)
			}
		}
	}
	for _, n := range b.Nodes {
		scanPins(n.Pins)
	}
	for _, l := range b.Layers {
		scanPins(l.Pins)
		for _, n := range l.Nodes {
			scanPins(n.Pins)
		}
	}
	for pinID, v := range payload.Inputs {
		if _, ok := sensitivePins[pinID]; ok {
			add(v)
		}
	}

	return r
}

const redactedPlaceholder = "[redacted]"

// Scrub replaces every occurrence of a tracked secret value within s.
func (r *Redactor) Scrub(s string) string {
	if r == nil {
		return s
	}
	out := s
	for _, secret := range r.secrets {
		if secret == "" {
			continue
		}
		out = strings.ReplaceAll(out, secret, redactedPlaceholder)
	}
	return out
}

// ScrubFields applies Scrub to every string value in a flat map,
// which is the shape IntercomEvent.Fields takes.
func (r *Redactor) ScrubFields(fields map[string]string) map[string]string {
	if r == nil || len(fields) == 0 {
		return fields
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = r.Scrub(v)
	}
	return out
}
