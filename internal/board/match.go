package board

import "github.com/silexa/boardcore/internal/types"

// DoPinsMatch implements the ordered connection-validity rule (spec.md
// §4.2). Rules are checked strictly in order and the first one that
// decides the outcome wins — later rules never override an earlier
// "invalid".
func DoPinsMatch(a, b Pin, refs Refs) bool {
	// Rule 1: a universal routing sentinel bridges anything.
	if isRouteSentinel(a) || isRouteSentinel(b) {
		return true
	}

	// Rule 2: a connection must join an output to an input.
	if a.PinType == b.PinType {
		return false
	}

	// Rule 3: if both sides declare a schema, the resolved text must match.
	aSchema, aHasSchema := resolvedSchema(a, refs)
	bSchema, bHasSchema := resolvedSchema(b, refs)
	if aHasSchema && bHasSchema && aSchema != bSchema {
		return false
	}

	// Rule 4: enforce_generic_value_type on either side requires equal value_type.
	if enforcesGenericValueType(a) || enforcesGenericValueType(b) {
		if a.ValueType != b.ValueType {
			return false
		}
	}

	aExec, bExec := a.DataType == types.DataExecution, b.DataType == types.DataExecution
	aGeneric, bGeneric := a.DataType == types.DataGeneric, b.DataType == types.DataGeneric

	// Rule 5: Generic bridges any non-Execution counterpart.
	if (aGeneric || bGeneric) && !aExec && !bExec {
		return true
	}
	// Execution only unifies with Execution, even against Generic.
	if (aExec || bExec) && aExec != bExec {
		return false
	}

	// Rule 6: enforce_schema requires both schemas present and equal,
	// unless either pin is a value-ref sentinel or either is Generic.
	if (enforcesSchema(a) || enforcesSchema(b)) && !IsValueRefSentinel(a.Name) && !IsValueRefSentinel(b.Name) && !aGeneric && !bGeneric {
		if !aHasSchema || !bHasSchema || aSchema != bSchema {
			return false
		}
	}

	// Rule 7: value types must agree.
	if a.ValueType != b.ValueType {
		return false
	}

	// Rule 8: data types must agree.
	return a.DataType == b.DataType
}

func isRouteSentinel(p Pin) bool {
	return IsRoutingSentinel(p.Name) && p.DataType == types.DataGeneric
}

func enforcesGenericValueType(p Pin) bool {
	return p.Options != nil && p.Options.EnforceGenericValueType
}

func enforcesSchema(p Pin) bool {
	return p.Options != nil && p.Options.EnforceSchema
}

// resolvedSchema returns a pin's resolved schema text and whether it
// actually set one (an empty interned schema still counts as "set" if
// the pin carries a non-empty key into refs; a pin with no Schema at
// all reports false).
func resolvedSchema(p Pin, refs Refs) (string, bool) {
	if p.Schema == "" {
		return "", false
	}
	return types.Resolve(p.Schema, refs), true
}

// InvertBoundaryPin flips Input<->Output for a layer boundary pin when
// it is viewed from inside the layer's own start/return nodes (spec.md
// §3: "Entering a layer view inverts the direction of its boundary
// pins"). Implementations must apply this before running DoPinsMatch
// against a layer's internal nodes.
func InvertBoundaryPin(p Pin) Pin {
	out := p
	if p.PinType == PinInput {
		out.PinType = PinOutput
	} else {
		out.PinType = PinInput
	}
	return out
}

// InvertBoundaryPins maps InvertBoundaryPin over a layer's full pin
// set, used when materializing its internal start (inputs become
// outputs) or return (outputs become inputs) node.
func InvertBoundaryPins(pins map[string]Pin) map[string]Pin {
	out := make(map[string]Pin, len(pins))
	for id, p := range pins {
		out[id] = InvertBoundaryPin(p)
	}
	return out
}
