package fraud

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lifeline/lifeline/internal/platform/auth"
	"github.com/lifeline/lifeline/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := api.Group("", auth.RequireRole("admin", "hospital", "bank"))
	write.POST("/donors/:id/activities", h.Record)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.GET("/donors/:id/activities", h.History)
	admin.GET("/activities/flagged", h.Flagged)
}

type checkResponse struct {
	Activity *Activity `json:"activity"`
	Check    Check     `json:"check"`
}

func (h *Handler) Record(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var a Activity
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.DonorID = id
	check, err := h.svc.CheckAndRecord(c.Request().Context(), &a)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, checkResponse{Activity: &a, Check: check})
}

func (h *Handler) History(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	activities, err := h.svc.History(c.Request().Context(), id, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, activities)
}

func (h *Handler) Flagged(c echo.Context) error {
	p := pagination.FromContext(c)
	activities, total, err := h.svc.Flagged(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(activities, total, p.Limit, p.Offset))
}
