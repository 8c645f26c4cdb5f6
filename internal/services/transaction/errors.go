package transaction

import (
	"errors"

	domainerrors "ledger/internal/errors"
	"ledger/internal/repositories"
)

// classify turns an error escaping a unit of work into a domain error.
func classify(msg string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domainerrors.As(err); ok {
		return err
	}
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return domainerrors.ErrDuplicateReference.Wrap(err)
	}
	return domainerrors.Internal(msg, err)
}
