package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"eld-trip-service/internal/hos"
	"eld-trip-service/internal/http/middleware"
	"eld-trip-service/internal/model"
	"eld-trip-service/internal/service"
)

type Handler struct {
	tripService *service.TripService
	log         zerolog.Logger
}

func NewHandler(tripService *service.TripService, log zerolog.Logger) *Handler {
	return &Handler{
		tripService: tripService,
		log:         log,
	}
}

type coordinatePayload struct {
	Lat float64 `json:"lat" binding:"required"`
	Lon float64 `json:"lon" binding:"required"`
}

type legPayload struct {
	DistanceMiles  float64 `json:"distance_miles" binding:"required,gt=0"`
	EstimatedHours float64 `json:"estimated_hours" binding:"required,gt=0"`
	StartLabel     string  `json:"start_label" binding:"required"`
	EndLabel       string  `json:"end_label" binding:"required"`
}

type planTripRequest struct {
	CurrentLocation string `json:"current_location" binding:"required"`
	PickupLocation  string `json:"pickup_location" binding:"required"`
	DropoffLocation string `json:"dropoff_location" binding:"required"`

	CurrentCoord *coordinatePayload `json:"current_coord"`
	PickupCoord  *coordinatePayload `json:"pickup_coord"`
	DropoffCoord *coordinatePayload `json:"dropoff_coord"`

	Legs []legPayload `json:"legs"`

	CurrentCycleUsed      float64  `json:"current_cycle_used"`
	CMVWeight             int      `json:"cmv_weight"`
	RequiresCDL           *bool    `json:"requires_cdl"`
	AdverseConditions     bool     `json:"adverse_conditions"`
	IncludesHazmat        bool     `json:"includes_hazmat"`
	AgriculturalSource    bool     `json:"agricultural_source"`
	ConstructionMaterials bool     `json:"construction_materials"`
	TripType              string   `json:"trip_type"`
	StartDate             string   `json:"start_date"`
	DeclaredExceptions    []string `json:"declared_exceptions"`
}

func (h *Handler) planTrip(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req planTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.PlanTripInput{
		CurrentLocation:       strings.TrimSpace(req.CurrentLocation),
		PickupLocation:        strings.TrimSpace(req.PickupLocation),
		DropoffLocation:       strings.TrimSpace(req.DropoffLocation),
		CurrentCoord:          toCoordinates(req.CurrentCoord),
		PickupCoord:           toCoordinates(req.PickupCoord),
		DropoffCoord:          toCoordinates(req.DropoffCoord),
		CycleHoursUsed:        req.CurrentCycleUsed,
		CMVWeightLbs:          req.CMVWeight,
		RequiresCDL:           true,
		AdverseConditions:     req.AdverseConditions,
		IncludesHazmat:        req.IncludesHazmat,
		AgriculturalSource:    req.AgriculturalSource,
		ConstructionMaterials: req.ConstructionMaterials,
		TripType:              model.TripType(strings.ToLower(strings.TrimSpace(req.TripType))),
		DeclaredExceptions:    req.DeclaredExceptions,
	}
	if req.RequiresCDL != nil {
		input.RequiresCDL = *req.RequiresCDL
	}
	if input.CMVWeightLbs == 0 {
		input.CMVWeightLbs = service.MinCMVWeightLbs
	}
	for _, leg := range req.Legs {
		input.Legs = append(input.Legs, model.RouteLeg{
			DistanceMiles:  leg.DistanceMiles,
			EstimatedHours: leg.EstimatedHours,
			StartLabel:     leg.StartLabel,
			EndLabel:       leg.EndLabel,
		})
	}
	if req.StartDate != "" {
		ts, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("start_date must be YYYY-MM-DD"))
			return
		}
		input.StartDate = ts
	}

	result, err := h.tripService.PlanTrip(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(result))
}

func (h *Handler) listTrips(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var opts service.ListTripsOptions
	if limit := strings.TrimSpace(c.Query("limit")); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			opts.Limit = v
		}
	}
	if offset := strings.TrimSpace(c.Query("offset")); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil {
			opts.Offset = v
		}
	}

	trips, err := h.tripService.ListTrips(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": trips}))
}

func (h *Handler) getTrip(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	tripID := strings.TrimSpace(c.Param("id"))
	if tripID == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid trip id"))
		return
	}

	trip, err := h.tripService.GetTrip(c.Request.Context(), principal, tripID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(trip))
}

func (h *Handler) listExceptions(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(gin.H{"items": hos.CatalogInfo()}))
}

func (h *Handler) listRules(c *gin.Context) {
	rules := hos.Rules()
	items := make([]gin.H, 0, len(rules))
	for _, r := range rules {
		items = append(items, gin.H{
			"rule_id":  r.ID,
			"title":    r.Title,
			"citation": r.Citation,
			"limit":    r.LimitHours,
			"severity": r.Severity,
		})
	}
	c.JSON(http.StatusOK, successResponse(gin.H{
		"items":            items,
		"legal_references": hos.LegalReferences(),
	}))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func toCoordinates(p *coordinatePayload) *model.Coordinates {
	if p == nil {
		return nil
	}
	return &model.Coordinates{Lat: p.Lat, Lon: p.Lon}
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
