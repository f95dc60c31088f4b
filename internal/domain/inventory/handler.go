package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lifeline/lifeline/internal/platform/auth"
	"github.com/lifeline/lifeline/pkg/pagination"
)

const defaultExpiryWindowDays = 7

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "hospital", "bank"))
	read.GET("/banks", h.ListBanks)
	read.GET("/banks/:id", h.GetBank)
	read.GET("/batches", h.ListBatches)
	read.GET("/batches/:id", h.GetBatch)
	read.GET("/inventory/expiring", h.Expiring)
	read.GET("/inventory/transfers", h.Transfers)

	write := api.Group("", auth.RequireRole("admin", "bank"))
	write.POST("/banks", h.CreateBank)
	write.POST("/batches", h.CreateBatch)
	write.DELETE("/batches/:id", h.DeleteBatch)

	api.DELETE("/banks/:id", h.DeleteBank, auth.RequireRole("admin"))
}

func (h *Handler) CreateBank(c echo.Context) error {
	var b Bank
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateBank(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBank(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.GetBank(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "bank not found")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBanks(c echo.Context) error {
	p := pagination.FromContext(c)
	banks, total, err := h.svc.ListBanks(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(banks, total, p.Limit, p.Offset))
}

func (h *Handler) DeleteBank(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteBank(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateBatch(c echo.Context) error {
	var b Batch
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateBatch(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBatch(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.GetBatch(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "batch not found")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBatches(c echo.Context) error {
	p := pagination.FromContext(c)
	var bankID *uuid.UUID
	if raw := c.QueryParam("bank_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid bank_id")
		}
		bankID = &id
	}
	batches, total, err := h.svc.ListBatches(c.Request().Context(), bankID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(batches, total, p.Limit, p.Offset))
}

func (h *Handler) DeleteBatch(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteBatch(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Expiring(c echo.Context) error {
	days, err := windowParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	expiring, err := h.svc.ExpiringBatches(c.Request().Context(), days)
	if err != nil {
		if errors.Is(err, ErrInvalidWindow) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, expiring)
}

func (h *Handler) Transfers(c echo.Context) error {
	days, err := windowParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	plan, err := h.svc.SuggestTransfers(c.Request().Context(), days)
	if err != nil {
		if errors.Is(err, ErrInvalidWindow) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, plan)
}

func windowParam(c echo.Context) (int, error) {
	raw := c.QueryParam("days")
	if raw == "" {
		return defaultExpiryWindowDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidWindow
	}
	return days, nil
}
