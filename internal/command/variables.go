package command

import (
	"encoding/json"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
)

type upsertVariablePayload struct {
	Variable board.Variable `json:"variable"`
}

func handleUpsertVariable(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[upsertVariablePayload](payload)
	if err != nil {
		return nil, err
	}
	if p.Variable.ID == "" {
		return nil, errs.New(errs.KindValidation, "upsert_variable requires a variable id")
	}
	prior, existed := b.Variables[p.Variable.ID]
	if existed && !prior.Editable {
		return nil, errs.New(errs.KindValidation, "variable %s is not editable", p.Variable.ID)
	}
	b.Variables[p.Variable.ID] = p.Variable
	if !existed {
		return encode(TagRemoveVariable, removeVariablePayload{ID: p.Variable.ID}), nil
	}
	return encode(TagUpsertVariable, upsertVariablePayload{Variable: prior}), nil
}

type removeVariablePayload struct {
	ID string `json:"id"`
}

func handleRemoveVariable(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[removeVariablePayload](payload)
	if err != nil {
		return nil, err
	}
	v, ok := b.Variables[p.ID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "remove_variable: variable %s does not exist", p.ID)
	}
	if !v.Editable {
		return nil, errs.New(errs.KindValidation, "variable %s is not editable", p.ID)
	}
	delete(b.Variables, p.ID)
	return encode(TagUpsertVariable, upsertVariablePayload{Variable: v}), nil
}
