package support

import (
	"context"
	"errors"

	"lodgebook/internal/app/uow"
	domainlodging "lodgebook/internal/domain/lodging"
)

// ErrNotLodgingOwner is raised when the acting host does not own the lodging.
// Authentication itself is an upstream concern; handlers only compare IDs.
var ErrNotLodgingOwner = errors.New("lodging: not owned by host")

// RequireLodgingOwner loads the lodging and verifies the acting host owns it.
// An empty hostID skips the check (internal/trusted callers).
func RequireLodgingOwner(ctx context.Context, unit uow.UnitOfWork, lodgingID domainlodging.LodgingID, hostID string) (*domainlodging.Lodging, error) {
	l, err := unit.Lodgings().ByID(ctx, lodgingID)
	if err != nil {
		return nil, err
	}
	if hostID != "" && l.HostID != hostID {
		return nil, ErrNotLodgingOwner
	}
	return l, nil
}
