package shared

import (
	"retail-core/internal/infra"
	"retail-core/internal/pkg/errs"
)

// Classify attaches an error kind to repository failures that do not carry one yet.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errs.Kind(err) != errs.ErrInternal || errs.Is(err, errs.ErrInternal) {
		return err
	}
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrNotFound)
	case infra.IsKind(err, infra.KindDuplicateKey), infra.IsKind(err, infra.KindConflict):
		return errs.Mark(err, errs.ErrConflict)
	default:
		return errs.Mark(err, errs.ErrInternal)
	}
}
