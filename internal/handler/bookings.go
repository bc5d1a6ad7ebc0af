package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trailcolombo/booking-api/internal/model"
	"github.com/trailcolombo/booking-api/internal/notifier"
	"github.com/trailcolombo/booking-api/internal/queue"
	"github.com/trailcolombo/booking-api/internal/repository"
	"github.com/trailcolombo/booking-api/internal/validation"
)

// BookingHandler bundles dependencies for the booking endpoints.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Notifier notifier.Notifier
}

func NewBookingHandler(b *repository.BookingRepo, n notifier.Notifier) *BookingHandler {
	return &BookingHandler{Bookings: b, Notifier: n}
}

// List handles GET /api/bookings (admin only). Rows are joined with the
// tour title for display, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	items, err := h.Bookings.ListWithTours(c.Request().Context())
	if err != nil {
		slog.Error("list bookings failed", "error", err)
		return fail(c, http.StatusInternalServerError, "failed to fetch bookings")
	}
	return c.JSON(http.StatusOK, items)
}

type createBookingReq struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	TourID any    `json:"tour_id"` // number or numeric string
	Date   string `json:"date"`
}

// Create handles POST /api/bookings. Public but rate-limited. All five
// fields are validated before any store access; the tour existence check
// and the insert run as one transaction inside the repository. The
// confirmation notifier runs in a goroutine and is never awaited by the
// response.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Phone) == "" || req.TourID == nil || strings.TrimSpace(req.Date) == "" {
		return fail(c, http.StatusBadRequest, "all fields are required")
	}
	if !validation.IsEmail(req.Email) {
		return fail(c, http.StatusBadRequest, "invalid email format")
	}
	if !validation.IsName(req.Name) {
		return fail(c, http.StatusBadRequest, "name must be 2-100 characters")
	}
	if !validation.IsPhone(req.Phone) {
		return fail(c, http.StatusBadRequest, "invalid phone format")
	}
	if !validation.IsFutureDate(req.Date, time.Now()) {
		return fail(c, http.StatusBadRequest, "tour date must be in the future")
	}
	tourID, okID := validation.ParseID(req.TourID)
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid tour id")
	}

	b := &model.Booking{
		Name:   validation.Escape(req.Name),
		Email:  validation.Escape(req.Email),
		Phone:  validation.Escape(req.Phone),
		TourID: tourID,
		Date:   strings.TrimSpace(req.Date),
	}

	tourTitle, err := h.Bookings.CreateForTour(c.Request().Context(), b)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The input format was fine; the reference was dangling.
			return fail(c, http.StatusNotFound, "tour not found")
		}
		slog.Error("create booking failed", "error", err)
		return fail(c, http.StatusInternalServerError, "failed to create booking")
	}

	ev := queue.BookingCreatedEvent{
		BookingID: b.ID,
		Name:      b.Name,
		Email:     b.Email,
		TourID:    b.TourID,
		TourTitle: tourTitle,
		Date:      b.Date,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Notifier.Notify(nctx, ev); err != nil {
			slog.Error("booking notification failed", "booking_id", ev.BookingID, "error", err)
		}
	}()

	return ok(c, echo.Map{"id": b.ID, "message": "booking created successfully"})
}

type updateBookingReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/bookings/:id (admin only). Status is the
// only field an admin may mutate.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid booking id")
	}

	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return fail(c, http.StatusBadRequest, "status is required")
	}
	if !validation.IsStatus(req.Status) {
		return fail(c, http.StatusBadRequest, "invalid status value")
	}

	if err := h.Bookings.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "booking not found")
		}
		slog.Error("update booking failed", "error", err)
		return fail(c, http.StatusInternalServerError, "failed to update booking")
	}
	return ok(c, echo.Map{"message": "booking updated successfully"})
}

// Delete handles DELETE /api/bookings/:id (admin only).
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid booking id")
	}

	if err := h.Bookings.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "booking not found")
		}
		slog.Error("delete booking failed", "error", err)
		return fail(c, http.StatusInternalServerError, "failed to delete booking")
	}
	return ok(c, echo.Map{"message": "booking deleted successfully"})
}
