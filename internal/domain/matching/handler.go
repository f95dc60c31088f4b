package matching

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lifeline/lifeline/internal/domain/organ"
	"github.com/lifeline/lifeline/internal/domain/request"
	"github.com/lifeline/lifeline/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "hospital", "bank"))
	g.GET("/requests/:id/matches", h.MatchDonors)
	g.GET("/organs/:id/matches", h.MatchRequests)
}

type donorMatchesResponse struct {
	Request *request.Request `json:"request"`
	Matches []DonorCandidate `json:"matches"`
	Total   int              `json:"total"`
}

func (h *Handler) MatchDonors(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, matches, err := h.svc.MatchDonors(c.Request().Context(), id)
	if err != nil {
		if req == nil {
			return echo.NewHTTPError(http.StatusNotFound, "request not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, donorMatchesResponse{Request: req, Matches: matches, Total: len(matches)})
}

type requestMatchesResponse struct {
	Organ   *organ.Organ   `json:"organ"`
	Matches []RequestMatch `json:"matches"`
	Total   int            `json:"total"`
}

func (h *Handler) MatchRequests(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, matches, err := h.svc.MatchRequests(c.Request().Context(), id)
	if err != nil {
		if o == nil {
			return echo.NewHTTPError(http.StatusNotFound, "organ not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, requestMatchesResponse{Organ: o, Matches: matches, Total: len(matches)})
}
