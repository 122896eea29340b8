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
	bookingapp "lodgebook/internal/app/handlers/booking"
	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/queries"
	domainavailability "lodgebook/internal/domain/availability"
	domainbooking "lodgebook/internal/domain/booking"
	domainlodging "lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	LodgingID      string `json:"lodgingId"`
	CheckInDate    string `json:"checkInDate"`
	CheckOutDate   string `json:"checkOutDate"`
	NumberOfGuests int    `json:"numberOfGuests"`
	PaymentMethod  string `json:"paymentMethod"`
}

func (h BookingHandler) Create(c *gin.Context) {
	guest := actingUser(c)
	if guest == "" {
		h.respondWithError(c, http.StatusUnauthorized, errors.New("caller identity required"))
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}

	cmd := bookingapp.RequestBookingCommand{
		CommandID:       uuid.NewString(),
		LodgingID:       strings.TrimSpace(req.LodgingID),
		GuestID:         guest,
		CheckIn:         strings.TrimSpace(req.CheckInDate),
		CheckOut:        strings.TrimSpace(req.CheckOutDate),
		Guests:          req.NumberOfGuests,
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		IdempotencyKeyV: idempotencyKey(c),
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateBookingStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h BookingHandler) UpdateStatus(c *gin.Context) {
	host := actingUser(c)
	if host == "" {
		h.respondWithError(c, http.StatusUnauthorized, errors.New("caller identity required"))
		return
	}
	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}

	cmd := bookingapp.UpdateBookingStatusCommand{
		BookingID:     strings.TrimSpace(c.Param("id")),
		HostID:        host,
		Status:        strings.TrimSpace(req.Status),
		PaymentStatus: strings.TrimSpace(req.PaymentStatus),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	}
	result, err := commands.Dispatch[bookingapp.UpdateBookingStatusCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListMine(c *gin.Context) {
	guest := actingUser(c)
	if guest == "" {
		h.respondWithError(c, http.StatusUnauthorized, errors.New("caller identity required"))
		return
	}
	query := bookingapp.ListGuestBookingsQuery{GuestID: guest}
	result, err := queries.Ask[bookingapp.ListGuestBookingsQuery, []dto.Booking](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": result})
}

func (h BookingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainavailability.ErrDatesUnavailable):
		h.respondWithError(c, http.StatusConflict, err)
	case errors.Is(err, bookingapp.ErrBookingNotOwned),
		errors.Is(err, handlersupport.ErrNotLodgingOwner):
		h.respondWithError(c, http.StatusForbidden, err)
	case errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainlodging.ErrLodgingNotFound),
		errors.Is(err, mongo.ErrNoDocuments):
		h.respondWithError(c, http.StatusNotFound, err)
	case isBookingValidationError(err):
		h.respondWithError(c, http.StatusBadRequest, err)
	default:
		h.respondWithError(c, http.StatusInternalServerError, err)
	}
}

func (h BookingHandler) respondWithError(c *gin.Context, status int, err error) {
	if h.Logger != nil {
		h.Logger.Error("booking request failed", "status", status, "error", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func isBookingValidationError(err error) bool {
	switch {
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, daterange.ErrInvalidDate),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, domainbooking.ErrInvalidState),
		errors.Is(err, domainbooking.ErrCheckInInPast):
		return true
	}
	return false
}

var _ BookingHTTP = BookingHandler{}
