// Package command implements the board engine's command layer (spec.md
// §4.3, component C3): tagged, reversible mutations applied to a
// board. Every handler returns the inverted command needed to undo
// its own effect, mirroring the teacher's signal-dispatch table in
// shape but made synchronous — command application must never suspend.
package command

import (
	"encoding/json"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
)

// Tag names a command in the catalogue (spec.md §4.3's table).
type Tag string

const (
	TagUpsertNode      Tag = "upsert_node"
	TagUpdateNode      Tag = "update_node"
	TagRemoveNode      Tag = "remove_node"
	TagUpsertPin       Tag = "upsert_pin"
	TagRemovePin       Tag = "remove_pin"
	TagMoveNode        Tag = "move_node"
	TagConnectPins     Tag = "connect_pins"
	TagDisconnectPins  Tag = "disconnect_pins"
	TagUpsertComment   Tag = "upsert_comment"
	TagRemoveComment   Tag = "remove_comment"
	TagUpsertVariable  Tag = "upsert_variable"
	TagRemoveVariable  Tag = "remove_variable"
	TagUpsertLayer     Tag = "upsert_layer"
	TagRemoveLayer     Tag = "remove_layer"
	TagCopyPaste       Tag = "copy_paste"

	// TagRestoreNode is an internal inverse-only tag: it is never
	// produced by a client, only returned as remove_node's inverse and
	// replayed by undo/redo.
	TagRestoreNode Tag = "restore_node"
)

// Command is a tagged mutation. Payload is opaque JSON interpreted by
// the handler registered for Tag — the same "tagged sum type at the
// command boundary" pattern SPEC_FULL.md's redesign notes call for in
// place of a dynamic property bag.
type Command struct {
	Tag     Tag             `json:"tag"`
	Payload json.RawMessage `json:"payload"`
}

// handler mutates board in place and returns the command that undoes
// exactly what it did. Handlers must leave board untouched if they
// return an error.
type handler func(b *board.Board, payload json.RawMessage) (*Command, error)

var dispatch = map[Tag]handler{
	TagUpsertNode:     handleUpsertNode,
	TagUpdateNode:     handleUpdateNode,
	TagRemoveNode:     handleRemoveNode,
	TagUpsertPin:      handleUpsertPin,
	TagRemovePin:      handleRemovePin,
	TagMoveNode:       handleMoveNode,
	TagConnectPins:    handleConnectPins,
	TagDisconnectPins: handleDisconnectPins,
	TagUpsertComment:  handleUpsertComment,
	TagRemoveComment:  handleRemoveComment,
	TagUpsertVariable: handleUpsertVariable,
	TagRemoveVariable: handleRemoveVariable,
	TagUpsertLayer:    handleUpsertLayer,
	TagRemoveLayer:    handleRemoveLayer,
	TagCopyPaste:      handleCopyPaste,
	TagRestoreNode:    handleRestoreNode,
	TagRestoreLayer:   handleRestoreLayer,
	TagRemovePasted:   handleRemovePasted,
}

func encode(tag Tag, v any) *Command {
	data, err := json.Marshal(v)
	if err != nil {
		panic("command: unencodable inverse payload: " + err.Error())
	}
	return &Command{Tag: tag, Payload: data}
}

func decode[T any](payload json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, errs.Wrap(errs.KindValidation, err, "malformed command payload")
	}
	return v, nil
}

// Execute applies a single command to board, returning its inverse.
// The board is left untouched on error.
func Execute(b *board.Board, cmd Command) (*Command, error) {
	h, ok := dispatch[cmd.Tag]
	if !ok {
		return nil, errs.New(errs.KindValidation, "unknown command tag %q", cmd.Tag)
	}
	working := b.Clone()
	inverse, err := h(working, cmd.Payload)
	if err != nil {
		return nil, err
	}
	if err := board.Validate(working); err != nil {
		return nil, err
	}
	*b = *working
	return inverse, nil
}

// ExecuteMany applies cmds in order as a single transaction: on the
// first failure, every already-applied command is undone by replaying
// its inverse in reverse order, and the validation error is returned
// (spec.md §4.3's execute_commands).
func ExecuteMany(b *board.Board, cmds []Command) ([]Command, error) {
	applied := make([]Command, 0, len(cmds))
	for _, cmd := range cmds {
		inverse, err := Execute(b, cmd)
		if err != nil {
			rollback(b, applied)
			return nil, err
		}
		applied = append(applied, *inverse)
	}
	return applied, nil
}

func rollback(b *board.Board, inverses []Command) {
	for i := len(inverses) - 1; i >= 0; i-- {
		// Rollback must itself succeed: every inverse here was just
		// produced against this exact board state, so failure would
		// indicate an invariant bug in a handler, not bad input.
		if _, err := Execute(b, inverses[i]); err != nil {
			panic("command: rollback of a just-applied inverse failed: " + err.Error())
		}
	}
}

// Undo applies a slice of previously-returned inverse commands, in
// reverse order, restoring the board to its pre-command state.
func Undo(b *board.Board, inverses []Command) error {
	for i := len(inverses) - 1; i >= 0; i-- {
		if _, err := Execute(b, inverses[i]); err != nil {
			return err
		}
	}
	return nil
}

// Redo re-applies the original commands in order.
func Redo(b *board.Board, cmds []Command) ([]Command, error) {
	return ExecuteMany(b, cmds)
}
