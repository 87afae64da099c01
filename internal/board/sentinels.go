package board

// Well-known pin names the engine treats as behavioral sentinels
// rather than ordinary data pins (spec.md §9 "Open questions"
// decision: freeze the full catalogue here instead of scattering
// string literals across the command/execution layers).
const (
	// PinRouteIn/PinRouteOut mark a Generic pin that bridges any other
	// pin unconditionally (spec.md §4.2 rule 1) — used by layer
	// boundary and passthrough nodes.
	PinRouteIn  = "route_in"
	PinRouteOut = "route_out"

	// PinValueRef/PinValueIn are exempted from the enforce_schema
	// requirement (spec.md §4.2 rule 6): a "value ref" pin carries an
	// opaque handle rather than a schema-checked payload.
	PinValueRef = "value_ref"
	PinValueIn  = "value_in"

	// PinAutoHandleError/PinAutoHandleErrorString are the output pins
	// a failing node may expose to route NodeError into the graph
	// instead of failing the run (spec.md §4.4, §7).
	PinAutoHandleError       = "auto_handle_error"
	PinAutoHandleErrorString = "auto_handle_error_string"
)

// IsRoutingSentinel reports whether a pin name is the universal-match
// sentinel used for layer boundary routing.
func IsRoutingSentinel(name string) bool {
	return name == PinRouteIn || name == PinRouteOut
}

// IsValueRefSentinel reports whether a pin name is exempt from
// enforce_schema matching (spec.md §4.2 rule 6).
func IsValueRefSentinel(name string) bool {
	return name == PinValueRef || name == PinValueIn
}
