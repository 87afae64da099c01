package command

import (
	"encoding/json"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
)

type upsertCommentPayload struct {
	Comment board.Comment `json:"comment"`
}

func handleUpsertComment(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[upsertCommentPayload](payload)
	if err != nil {
		return nil, err
	}
	if p.Comment.ID == "" {
		return nil, errs.New(errs.KindValidation, "upsert_comment requires a comment id")
	}
	p.Comment.Hash = board.ComputeCommentHash(p.Comment)
	prior, existed := b.Comments[p.Comment.ID]
	b.Comments[p.Comment.ID] = p.Comment
	if !existed {
		return encode(TagRemoveComment, removeCommentPayload{ID: p.Comment.ID}), nil
	}
	return encode(TagUpsertComment, upsertCommentPayload{Comment: prior}), nil
}

type removeCommentPayload struct {
	ID string `json:"id"`
}

func handleRemoveComment(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[removeCommentPayload](payload)
	if err != nil {
		return nil, err
	}
	c, ok := b.Comments[p.ID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "remove_comment: comment %s does not exist", p.ID)
	}
	delete(b.Comments, p.ID)
	return encode(TagUpsertComment, upsertCommentPayload{Comment: c}), nil
}
