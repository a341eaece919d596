package model

import "time"

// LegalReference points at the CFR section backing a rule.
type LegalReference struct {
	Section   string `json:"section"`
	Title     string `json:"title"`
	Reference string `json:"reference"`
}

// ExceptionInfo describes an HOS exception for the reference catalog and for
// the list of exceptions a trip qualifies for.
type ExceptionInfo struct {
	Name        string   `json:"name"`
	CFRSection  string   `json:"cfr_section"`
	Description string   `json:"description"`
	Conditions  []string `json:"conditions,omitempty"`
	Benefits    []string `json:"benefits"`
}

// RouteInfo summarizes the estimated route returned with a trip result.
type RouteInfo struct {
	Legs            []RouteLeg `json:"legs"`
	DistanceMiles   float64    `json:"distance_miles"`
	DrivingHours    float64    `json:"driving_hours"`
	EstimatedDays   int        `json:"estimated_days"`
	AverageSpeedMph float64    `json:"average_speed"`
	FuelStops       int        `json:"fuel_stops"`
}

// TripResult is the full payload consumed by the rendering layer. Field names
// match what it destructures; it applies no transformation of its own.
type TripResult struct {
	TripID            string            `json:"trip_id"`
	Route             RouteInfo         `json:"route"`
	EldLogs           []DailyLog        `json:"eld_logs"`
	ComplianceSummary ComplianceSummary `json:"compliance_summary"`
	LegalReferences   []LegalReference  `json:"legal_references"`
	Exceptions        []ExceptionInfo   `json:"exceptions"`
	GeneratedAt       time.Time         `json:"generated_at"`
}
