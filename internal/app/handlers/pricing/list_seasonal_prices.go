package pricing

import (
	"context"
	"sort"

	"lodgebook/internal/app/dto"
	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/uow"
	domainlodging "lodgebook/internal/domain/lodging"
)

const listSeasonalPricesKey = "pricing.seasonal.list"

type ListSeasonalPricesQuery struct {
	LodgingID string
}

func (q ListSeasonalPricesQuery) Key() string { return listSeasonalPricesKey }

type ListSeasonalPricesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListSeasonalPricesHandler) Handle(ctx context.Context, q ListSeasonalPricesQuery) ([]dto.SeasonalPrice, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.SeasonalPrices().ListByLodging(execCtx, domainlodging.LodgingID(q.LodgingID))
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Range.Start.Before(items[j].Range.Start)
	})
	return dto.MapSeasonalPrices(items), nil
}
