// Package facade implements the external-interface façade (spec.md
// §4.6, component C6): a Service composing the core's capability
// interfaces over chi-routed HTTP, directly adapted from the
// teacher's dashboard router shape.
package facade

// Capability names one of the named sub-states spec.md §4.6 groups
// operations into.
type Capability string

const (
	CapabilityBoardState    Capability = "boardState"
	CapabilityEventState    Capability = "eventState"
	CapabilityUserState     Capability = "userState"
	CapabilityTeamState     Capability = "teamState"
	CapabilityRoleState     Capability = "roleState"
	CapabilityTemplateState Capability = "templateState"
	CapabilityStorageState  Capability = "storageState"
	CapabilityHelperState   Capability = "helperState"
	CapabilityBitState      Capability = "bitState"
	CapabilityAIState       Capability = "aiState"
	CapabilityAppState      Capability = "appState"
)

// Option represents a sub-state that may or may not be implemented in
// this deployment (spec.md §9's redesign flag: "replace a throwing
// proxy with explicit Option values"). A caller feature-detects via
// Capabilities() instead of invoking an absent sub-state and getting a
// runtime panic.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a live implementation.
func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

// None is the empty placeholder for a sub-state this deployment does
// not implement.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the wrapped value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

// IsSome reports whether the sub-state is live.
func (o Option[T]) IsSome() bool { return o.ok }
