package driver

import (
	"errors"

	"tccl/internal/backend/cil"
	"tccl/internal/source"
)

func spanOfError(err error) source.Span {
	var decoration *cil.DecorationError
	if errors.As(err, &decoration) {
		return decoration.Span
	}
	var op *cil.UnsupportedOperatorError
	if errors.As(err, &op) {
		return op.Span
	}
	var slot *cil.UnresolvedSlotError
	if errors.As(err, &slot) {
		return slot.Span
	}
	return source.Span{}
}
