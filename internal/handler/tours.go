package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trailcolombo/booking-api/internal/model"
	"github.com/trailcolombo/booking-api/internal/repository"
	"github.com/trailcolombo/booking-api/internal/validation"
)

// TourHandler bundles dependencies for the tour endpoints.
type TourHandler struct {
	Tours *repository.TourRepo
}

func NewTourHandler(t *repository.TourRepo) *TourHandler {
	return &TourHandler{Tours: t}
}

// List handles GET /api/tours. Public, returns all tours newest first.
func (h *TourHandler) List(c echo.Context) error {
	tours, err := h.Tours.List(c.Request().Context())
	if err != nil {
		slog.Error("list tours failed", "error", err)
		return fail(c, http.StatusInternalServerError, "an error occurred, please try again")
	}
	return c.JSON(http.StatusOK, tours)
}

type createTourReq struct {
	Title       string `json:"title"`
	Price       any    `json:"price"` // number or numeric string, normalized before storing
	Description string `json:"description"`
	Image       string `json:"image"`
	Whatsapp    string `json:"whatsapp"`
}

// Create handles POST /api/tours (admin only). Text fields are
// sanitized; a malformed image URL is stored empty instead of failing
// the whole request.
func (h *TourHandler) Create(c echo.Context) error {
	var req createTourReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Title) == "" || req.Price == nil {
		return fail(c, http.StatusBadRequest, "title and price are required")
	}

	title := validation.Escape(req.Title)
	if len(title) < 3 || len(title) > 200 {
		return fail(c, http.StatusBadRequest, "title must be 3-200 characters")
	}

	price, okPrice := validation.ParsePrice(req.Price)
	if !okPrice {
		return fail(c, http.StatusBadRequest, "price must be a positive number")
	}

	desc := validation.Escape(req.Description)
	if len(desc) > 1000 {
		return fail(c, http.StatusBadRequest, "description must be at most 1000 characters")
	}

	t := &model.Tour{
		Title:       title,
		Price:       price,
		Description: desc,
		Image:       validation.NormalizeImageURL(req.Image),
		Whatsapp:    validation.Escape(req.Whatsapp),
	}
	if err := h.Tours.Create(c.Request().Context(), t); err != nil {
		slog.Error("create tour failed", "error", err)
		return fail(c, http.StatusInternalServerError, "failed to add tour")
	}

	return ok(c, echo.Map{"id": t.ID, "message": "tour added successfully"})
}

// Delete handles DELETE /api/tours/:id (admin only). Bookings for the
// tour disappear with it via the store-level cascade.
func (h *TourHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid tour id")
	}

	if err := h.Tours.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "tour not found")
		}
		slog.Error("delete tour failed", "error", err)
		return fail(c, http.StatusInternalServerError, "failed to delete tour")
	}
	return ok(c, echo.Map{"message": "tour deleted successfully"})
}
