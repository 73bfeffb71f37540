package results

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/claritynlp/cqldecode/internal/fhir"
)

// Handler exposes the decode and results endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/decode", h.Decode)
	api.POST("/results", h.CreateResults)
	api.GET("/results", h.ListResults)
	api.GET("/results/:id", h.GetResult)
}

// Decode performs a stateless decode of a CQL result envelope or a bare
// FHIR resource.
func (h *Handler) Decode(c echo.Context) error {
	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}

	name, records, err := h.svc.Decode(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if records == nil {
		// unknown type: an empty list, not an error
		records = []fhir.Record{}
	}

	resp := map[string]interface{}{
		"count":   len(records),
		"records": records,
	}
	if name != "" {
		resp["source_name"] = name
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateResults decodes the request body and persists every decoded record.
func (h *Handler) CreateResults(c echo.Context) error {
	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}

	stored, err := h.svc.DecodeAndStore(c.Request().Context(), body)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"count":   len(stored),
		"results": stored,
	})
}

func (h *Handler) ListResults(c echo.Context) error {
	filter := ListFilter{
		ResourceType: c.QueryParam("resource_type"),
		Limit:        queryInt(c, "limit", 50),
		Offset:       queryInt(c, "offset", 0),
	}

	items, total, err := h.svc.ListResults(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list results")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"total":   total,
		"results": items,
	})
}

func (h *Handler) GetResult(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid result id")
	}

	res, err := h.svc.GetResult(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "result not found")
	}
	return c.JSON(http.StatusOK, res)
}

func queryInt(c echo.Context, name string, def int) int {
	s := c.QueryParam(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
