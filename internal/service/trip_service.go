package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"eld-trip-service/internal/hos"
	"eld-trip-service/internal/model"
	"eld-trip-service/internal/repository"
	"eld-trip-service/internal/route"
)

// MinCMVWeightLbs is the property-carrying threshold below which the vehicle
// is not a regulated CMV unless it carries placarded hazmat.
const MinCMVWeightLbs = 10001

type TripService struct {
	tripRepo *repository.TripRepository
	legs     route.LegProvider
	log      zerolog.Logger
}

func NewTripService(tripRepo *repository.TripRepository, legs route.LegProvider, log zerolog.Logger) *TripService {
	return &TripService{
		tripRepo: tripRepo,
		legs:     legs,
		log:      log,
	}
}

type PlanTripInput struct {
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string

	CurrentCoord *model.Coordinates
	PickupCoord  *model.Coordinates
	DropoffCoord *model.Coordinates

	// Legs bypasses the route estimator when the caller already has
	// routing output.
	Legs []model.RouteLeg

	CycleHoursUsed        float64
	CMVWeightLbs          int
	RequiresCDL           bool
	AdverseConditions     bool
	IncludesHazmat        bool
	AgriculturalSource    bool
	ConstructionMaterials bool

	TripType           model.TripType
	StartDate          time.Time
	DeclaredExceptions []string
}

// PlanTrip validates the request, resolves the route, runs the HOS engine
// and persists the result. Validation failures are rejected before any
// allocation happens; nothing is partially processed.
func (s *TripService) PlanTrip(ctx context.Context, principal model.Principal, input PlanTripInput) (*model.TripResult, error) {
	if !principal.CanPlanTrips() {
		return nil, ErrPermissionDenied
	}
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}

	legs := input.Legs
	if len(legs) == 0 {
		stops := []route.Stop{
			{Label: input.CurrentLocation, Coord: input.CurrentCoord},
			{Label: input.PickupLocation, Coord: input.PickupCoord},
			{Label: input.DropoffLocation, Coord: input.DropoffCoord},
		}
		var err error
		legs, err = s.legs.Legs(ctx, stops)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if len(legs) == 0 {
		return nil, fmt.Errorf("%w: empty route", ErrInvalidInput)
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	// Unknown exception categories never grant relief; they fall back to
	// the standard limits with a warning.
	for _, name := range input.DeclaredExceptions {
		if _, ok := hos.LookupException(name); !ok {
			s.log.Warn().Str("exception", name).Msg("unsupported exception category ignored")
		}
	}

	plan := model.TripPlan{
		CurrentLocation:       input.CurrentLocation,
		PickupLocation:        input.PickupLocation,
		DropoffLocation:       input.DropoffLocation,
		Legs:                  legs,
		CycleHoursUsed:        input.CycleHoursUsed,
		CMVWeightLbs:          input.CMVWeightLbs,
		RequiresCDL:           input.RequiresCDL,
		AdverseConditions:     input.AdverseConditions,
		IncludesHazmat:        input.IncludesHazmat,
		AgriculturalSource:    input.AgriculturalSource,
		ConstructionMaterials: input.ConstructionMaterials,
		TripType:              input.TripType,
		StartDate:             startDate,
		CurrentCoord:          input.CurrentCoord,
		PickupCoord:           input.PickupCoord,
		DropoffCoord:          input.DropoffCoord,
	}
	if plan.TripType == "" {
		plan.TripType = model.TripTypeInterstate
	}

	result, err := runEngine(plan)
	if err != nil {
		if errors.Is(err, hos.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.persist(ctx, plan, result); err != nil {
		return nil, err
	}

	return result, nil
}

// runEngine is the pure allocate -> evaluate -> assemble pipeline.
func runEngine(plan model.TripPlan) (*model.TripResult, error) {
	raw, err := hos.Allocate(plan)
	if err != nil {
		return nil, err
	}

	annotated, summary, err := hos.Evaluate(raw, plan)
	if err != nil {
		return nil, err
	}

	final, err := hos.Assemble(annotated, plan.StartDate)
	if err != nil {
		return nil, err
	}

	distance := plan.TotalDistanceMiles()
	hours := plan.TotalEstimatedHours()
	avgSpeed := 0.0
	if hours > 0 {
		avgSpeed = math.Round(distance / hours)
	}
	return &model.TripResult{
		TripID: newTripID(),
		Route: model.RouteInfo{
			Legs:            plan.Legs,
			DistanceMiles:   distance,
			DrivingHours:    math.Round(hours*10) / 10,
			EstimatedDays:   len(final),
			AverageSpeedMph: avgSpeed,
			FuelStops:       int(distance / hos.FuelIntervalMiles),
		},
		EldLogs:           final,
		ComplianceSummary: summary,
		LegalReferences:   hos.LegalReferences(),
		Exceptions:        hos.ApplicableExceptions(plan),
		GeneratedAt:       time.Now().UTC(),
	}, nil
}

func (s *TripService) persist(ctx context.Context, plan model.TripPlan, result *model.TripResult) error {
	trip := &model.Trip{
		TripID:             result.TripID,
		TripType:           plan.TripType,
		CurrentLocation:    plan.CurrentLocation,
		PickupLocation:     plan.PickupLocation,
		DropoffLocation:    plan.DropoffLocation,
		CycleHoursUsed:     plan.CycleHoursUsed,
		CMVWeightLbs:       plan.CMVWeightLbs,
		RequiresCDL:        plan.RequiresCDL,
		AdverseConditions:  plan.AdverseConditions,
		IncludesHazmat:     plan.IncludesHazmat,
		TotalDistanceMiles: plan.TotalDistanceMiles(),
		TotalDays:          result.ComplianceSummary.TotalDays,
		IsCompliant:        result.ComplianceSummary.IsCompliant,
		ViolationCount:     result.ComplianceSummary.ViolationCount,
	}

	logs := make([]model.EldLog, 0, len(result.EldLogs))
	for _, day := range result.EldLogs {
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			return fmt.Errorf("%w: bad day date %q", ErrInternal, day.Date)
		}
		logs = append(logs, model.EldLog{
			DayNumber:       day.DayNumber,
			Date:            date,
			DrivingHours:    day.DrivingHours,
			OnDutyHours:     day.OnDutyHours,
			OffDutyHours:    day.OffDutyHours,
			SleeperHours:    day.SleeperHours,
			Cycle8DayTotal:  day.Cycle8DayTotal,
			RequiresRestart: day.RequiresRestart,
			Activities:      day.Segments,
			Remarks:         day.Remarks,
			Violations:      day.Violations,
		})
	}

	if err := s.tripRepo.Create(ctx, trip, logs); err != nil {
		return err
	}
	return nil
}

func (s *TripService) GetTrip(ctx context.Context, principal model.Principal, tripID string) (*model.Trip, error) {
	trip, err := s.tripRepo.GetByTripID(ctx, strings.TrimSpace(tripID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

type ListTripsOptions struct {
	Limit  int
	Offset int
}

func (s *TripService) ListTrips(ctx context.Context, principal model.Principal, opts ListTripsOptions) ([]model.Trip, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 50
	}
	return s.tripRepo.List(ctx, repository.TripFilter{Limit: opts.Limit, Offset: opts.Offset})
}

func validatePlanInput(input PlanTripInput) error {
	if strings.TrimSpace(input.CurrentLocation) == "" ||
		strings.TrimSpace(input.PickupLocation) == "" ||
		strings.TrimSpace(input.DropoffLocation) == "" {
		return fmt.Errorf("%w: current, pickup and dropoff locations are required", ErrInvalidInput)
	}
	if input.CycleHoursUsed < 0 || input.CycleHoursUsed > 70 {
		return fmt.Errorf("%w: current_cycle_used must be between 0 and 70 hours", ErrInvalidInput)
	}
	if input.CMVWeightLbs < MinCMVWeightLbs && !input.IncludesHazmat {
		return fmt.Errorf("%w: CMV must weigh at least 10,001 lbs or transport placarded hazmat", ErrInvalidInput)
	}
	for _, leg := range input.Legs {
		if leg.DistanceMiles <= 0 || leg.EstimatedHours <= 0 {
			return fmt.Errorf("%w: route legs must have positive distance and duration", ErrInvalidInput)
		}
	}
	return nil
}

func newTripID() string {
	return "TRIP-" + strings.ToUpper(uuid.New().String()[:8])
}
