package forecast

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lifeline/lifeline/internal/domain/blood"
	"github.com/lifeline/lifeline/internal/platform/auth"
)

const defaultHorizonDays = 7

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "hospital", "bank"))
	g.GET("/forecast", h.Forecast)
	g.GET("/forecast/:bloodType", h.ForecastType)
}

func (h *Handler) Forecast(c echo.Context) error {
	days, err := horizonParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	forecasts, err := h.svc.Forecast(c.Request().Context(), days)
	if err != nil {
		if errors.Is(err, ErrInvalidHorizon) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, forecasts)
}

func (h *Handler) ForecastType(c echo.Context) error {
	days, err := horizonParam(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	bt, err := blood.Parse(c.Param("bloodType"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	tf, err := h.svc.ForecastType(c.Request().Context(), bt, days)
	if err != nil {
		if errors.Is(err, ErrInvalidHorizon) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tf)
}

func horizonParam(c echo.Context) (int, error) {
	raw := c.QueryParam("days")
	if raw == "" {
		return defaultHorizonDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidHorizon
	}
	return days, nil
}
