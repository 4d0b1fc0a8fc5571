package api

import (
	"errors"

	"adflow/internal/services"
	"adflow/internal/store"
)

// storeError translates store sentinel errors into service markers so the
// HTTP layer can map them to status codes.
func storeError(entity, operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return services.Wrap(services.ErrNotFound, entity, operation, "", err)
	case errors.Is(err, store.ErrTasksExist):
		return services.Wrap(services.ErrConflict, entity, operation, "tasks already exist", err)
	case errors.Is(err, store.ErrConstraint):
		return services.Wrap(services.ErrConflict, entity, operation, "", err)
	default:
		return services.Wrap(services.ErrTransient, entity, operation, "", err)
	}
}
