package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"lodgebook/internal/app/commands"
	"lodgebook/internal/app/dto"
	pricingapp "lodgebook/internal/app/handlers/pricing"
	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/queries"
	domainlodging "lodgebook/internal/domain/lodging"
	domainpricing "lodgebook/internal/domain/pricing"
	"lodgebook/internal/domain/shared/daterange"
)

type PricingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h PricingHandler) Quote(c *gin.Context) {
	query := pricingapp.QuoteTotalQuery{
		LodgingID: strings.TrimSpace(c.Param("id")),
		StartDate: strings.TrimSpace(c.Query("startDate")),
		EndDate:   strings.TrimSpace(c.Query("endDate")),
	}
	result, err := queries.Ask[pricingapp.QuoteTotalQuery, dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type addSeasonalPriceRequest struct {
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	PricePerNight int64  `json:"pricePerNight"`
	Name          string `json:"name"`
}

func (h PricingHandler) AddSeasonal(c *gin.Context) {
	var req addSeasonalPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	cmd := pricingapp.AddSeasonalPriceCommand{
		CommandID:       uuid.NewString(),
		LodgingID:       strings.TrimSpace(c.Param("id")),
		HostID:          actingUser(c),
		StartDate:       strings.TrimSpace(req.StartDate),
		EndDate:         strings.TrimSpace(req.EndDate),
		PricePerNight:   req.PricePerNight,
		Name:            strings.TrimSpace(req.Name),
		IdempotencyKeyV: idempotencyKey(c),
	}
	result, err := commands.Dispatch[pricingapp.AddSeasonalPriceCommand, *dto.SeasonalPrice](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PricingHandler) RemoveSeasonal(c *gin.Context) {
	cmd := pricingapp.RemoveSeasonalPriceCommand{
		SeasonalPriceID: strings.TrimSpace(c.Param("id")),
		HostID:          actingUser(c),
	}
	result, err := commands.Dispatch[pricingapp.RemoveSeasonalPriceCommand, *pricingapp.RemoveSeasonalPriceResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !result.Deleted {
		h.respondWithError(c, http.StatusNotFound, domainpricing.ErrSeasonalPriceNotFound)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PricingHandler) ListSeasonal(c *gin.Context) {
	query := pricingapp.ListSeasonalPricesQuery{
		LodgingID: strings.TrimSpace(c.Param("id")),
	}
	result, err := queries.Ask[pricingapp.ListSeasonalPricesQuery, []dto.SeasonalPrice](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seasonalPrices": result})
}

func (h PricingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, handlersupport.ErrNotLodgingOwner):
		h.respondWithError(c, http.StatusForbidden, err)
	case errors.Is(err, domainpricing.ErrSeasonalPriceNotFound),
		errors.Is(err, domainlodging.ErrLodgingNotFound),
		errors.Is(err, mongo.ErrNoDocuments):
		h.respondWithError(c, http.StatusNotFound, err)
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, daterange.ErrInvalidDate),
		errors.Is(err, domainpricing.ErrInvalidNightlyRate):
		h.respondWithError(c, http.StatusBadRequest, err)
	default:
		h.respondWithError(c, http.StatusInternalServerError, err)
	}
}

func (h PricingHandler) respondWithError(c *gin.Context, status int, err error) {
	if h.Logger != nil {
		h.Logger.Error("pricing request failed", "status", status, "error", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

var _ PricingHTTP = PricingHandler{}
