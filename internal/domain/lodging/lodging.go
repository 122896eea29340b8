package lodging

import (
	"context"
	"errors"

	"lodgebook/internal/domain/shared/money"
)

var ErrLodgingNotFound = errors.New("lodging: not found")

type LodgingID string

// Lodging is read-only context for availability and pricing decisions.
// Full lodging CRUD lives with an external service; this model carries only
// what admission control and quoting consume.
type Lodging struct {
	ID       LodgingID
	HostID   string
	Title    string
	City     string
	BaseRate money.Money
}

type Repository interface {
	ByID(ctx context.Context, id LodgingID) (*Lodging, error)
	Save(ctx context.Context, l *Lodging) error
}
