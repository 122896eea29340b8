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
	availabilityapp "lodgebook/internal/app/handlers/availability"
	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/queries"
	domainavailability "lodgebook/internal/domain/availability"
	domainlodging "lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
)

type AvailabilityHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h AvailabilityHandler) Check(c *gin.Context) {
	query := availabilityapp.CheckAvailabilityQuery{
		LodgingID: strings.TrimSpace(c.Param("id")),
		StartDate: strings.TrimSpace(c.Query("startDate")),
		EndDate:   strings.TrimSpace(c.Query("endDate")),
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, availabilityapp.CheckAvailabilityResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Calendar(c *gin.Context) {
	query := availabilityapp.GetCalendarQuery{
		LodgingID: strings.TrimSpace(c.Param("id")),
		HostID:    actingUser(c),
	}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type blockDatesRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (h AvailabilityHandler) Block(c *gin.Context) {
	var req blockDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	cmd := availabilityapp.BlockDatesCommand{
		CommandID:       uuid.NewString(),
		LodgingID:       strings.TrimSpace(c.Param("id")),
		HostID:          actingUser(c),
		StartDate:       strings.TrimSpace(req.StartDate),
		EndDate:         strings.TrimSpace(req.EndDate),
		Reason:          strings.TrimSpace(req.Reason),
		IdempotencyKeyV: idempotencyKey(c),
	}
	result, err := commands.Dispatch[availabilityapp.BlockDatesCommand, *dto.BlockDatesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AvailabilityHandler) Unblock(c *gin.Context) {
	cmd := availabilityapp.UnblockDatesCommand{
		BlockedDateID: strings.TrimSpace(c.Param("id")),
		HostID:        actingUser(c),
	}
	result, err := commands.Dispatch[availabilityapp.UnblockDatesCommand, *availabilityapp.UnblockDatesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !result.Deleted {
		h.respondWithError(c, http.StatusNotFound, domainavailability.ErrBlockedDateNotFound)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) ListBlocked(c *gin.Context) {
	query := availabilityapp.ListBlockedDatesQuery{
		LodgingID: strings.TrimSpace(c.Param("id")),
	}
	result, err := queries.Ask[availabilityapp.ListBlockedDatesQuery, []dto.BlockedDate](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blockedDates": result})
}

func (h AvailabilityHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, handlersupport.ErrNotLodgingOwner):
		h.respondWithError(c, http.StatusForbidden, err)
	case errors.Is(err, domainavailability.ErrBlockedDateNotFound),
		errors.Is(err, domainlodging.ErrLodgingNotFound),
		errors.Is(err, mongo.ErrNoDocuments):
		h.respondWithError(c, http.StatusNotFound, err)
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, daterange.ErrInvalidDate):
		h.respondWithError(c, http.StatusBadRequest, err)
	default:
		h.respondWithError(c, http.StatusInternalServerError, err)
	}
}

func (h AvailabilityHandler) respondWithError(c *gin.Context, status int, err error) {
	if h.Logger != nil {
		h.Logger.Error("availability request failed", "status", status, "error", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

var _ AvailabilityHTTP = AvailabilityHandler{}
