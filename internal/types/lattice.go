// Package types implements the board engine's type & schema layer
// (spec.md §4.1, component C1): the data_type/value_type lattice, pin
// options, and schema-reference interning. Everything here is pure —
// no board state, no I/O — so the command and execution layers can
// depend on it without circularity.
package types

// DataType is the primitive half of a pin's logical type.
type DataType string

const (
	DataExecution DataType = "Execution"
	DataBoolean   DataType = "Boolean"
	DataByte      DataType = "Byte"
	DataInteger   DataType = "Integer"
	DataFloat     DataType = "Float"
	DataString    DataType = "String"
	DataDate      DataType = "Date"
	DataPathBuf   DataType = "PathBuf"
	DataStruct    DataType = "Struct"
	DataGeneric   DataType = "Generic"
)

// ValueType is the container half of a pin's logical type.
type ValueType string

const (
	ValueNormal  ValueType = "Normal"
	ValueArray   ValueType = "Array"
	ValueHashSet ValueType = "HashSet"
	ValueHashMap ValueType = "HashMap"
)

// PinType distinguishes which side of a node a pin sits on.
type PinType string

const (
	PinInput  PinType = "Input"
	PinOutput PinType = "Output"
)

// PinOptions carries the constraint knobs spec.md §3 lists for a pin.
// All fields are optional. Step and the range bounds are pointers, so
// an unset value is distinct from 0; the boolean flags are plain bools,
// where false also stands for "unset".
type PinOptions struct {
	EnforceGenericValueType bool     `json:"enforce_generic_value_type,omitempty"`
	EnforceSchema           bool     `json:"enforce_schema,omitempty"`
	Sensitive               bool     `json:"sensitive,omitempty"`
	Step                    *float64 `json:"step,omitempty"`
	RangeMin                *float64 `json:"range_min,omitempty"`
	RangeMax                *float64 `json:"range_max,omitempty"`
	ValidValues             []string `json:"valid_values,omitempty"`
}

// RGB is the opaque renderer-facing color a data type maps to.
type RGB struct {
	R, G, B uint8
}

// colorTable is deliberately a fixed, hand-picked palette rather than
// a hash-derived one: spec.md §4.1 requires colors to stay "stable
// across versions", and renderers hard-code these against design
// mockups, so a future DataType addition must extend this table
// explicitly instead of silently reshuffling every other color.
var colorTable = map[DataType]RGB{
	DataExecution: {255, 255, 255},
	DataBoolean:   {150, 64, 64},
	DataByte:      {96, 160, 160},
	DataInteger:   {60, 180, 130},
	DataFloat:     {90, 170, 220},
	DataString:    {220, 130, 60},
	DataDate:      {160, 120, 200},
	DataPathBuf:   {200, 180, 90},
	DataStruct:    {120, 120, 220},
	DataGeneric:   {170, 170, 170},
}

// ColorFor returns the deterministic, stable display color for a
// data type. Unknown data types fall back to Generic's color rather
// than zero-valuing to black, since a renderer should never see an
// invisible pin.
func ColorFor(dt DataType) RGB {
	if c, ok := colorTable[dt]; ok {
		return c
	}
	return colorTable[DataGeneric]
}

// PinShape is the minimal (data_type, value_type) pair doPinsMatch and
// the lattice helpers reason about; board.Pin.Shape returns it.
type PinShape struct {
	DataType  DataType
	ValueType ValueType
}

// IsGeneric reports whether a pin's data type acts as the lattice's
// top type. Generic bridges any non-Execution data type but never
// unifies with Execution, so Generic-ness alone is not sufficient for
// a match — callers must also check the Execution exclusion themselves.
func (p PinShape) IsGeneric() bool { return p.DataType == DataGeneric }

// IsExecution reports whether a pin carries control-flow, not data.
func (p PinShape) IsExecution() bool { return p.DataType == DataExecution }
