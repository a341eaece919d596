package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TripType string

const (
	TripTypeInterstate TripType = "interstate"
	TripTypeIntrastate TripType = "intrastate"
)

// Coordinates is a geographic point as supplied by the routing collaborator.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RouteLeg is one leg of the planned route, distances and durations as
// returned by the route provider.
type RouteLeg struct {
	DistanceMiles  float64      `json:"distance_miles"`
	EstimatedHours float64      `json:"estimated_hours"`
	StartLabel     string       `json:"start_label"`
	EndLabel       string       `json:"end_label"`
	StartCoord     *Coordinates `json:"start_coord,omitempty"`
	EndCoord       *Coordinates `json:"end_coord,omitempty"`
}

// TripPlan is the immutable input to the HOS engine. It is built from a
// validated request and never modified afterwards.
type TripPlan struct {
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	Legs            []RouteLeg

	CycleHoursUsed float64
	CMVWeightLbs   int
	RequiresCDL    bool

	AdverseConditions     bool
	IncludesHazmat        bool
	AgriculturalSource    bool
	ConstructionMaterials bool

	TripType  TripType
	StartDate time.Time

	CurrentCoord *Coordinates
	PickupCoord  *Coordinates
	DropoffCoord *Coordinates
}

// TotalDistanceMiles sums leg distances.
func (p TripPlan) TotalDistanceMiles() float64 {
	var total float64
	for _, leg := range p.Legs {
		total += leg.DistanceMiles
	}
	return total
}

// TotalEstimatedHours sums leg driving estimates.
func (p TripPlan) TotalEstimatedHours() float64 {
	var total float64
	for _, leg := range p.Legs {
		total += leg.EstimatedHours
	}
	return total
}

// Trip is the persisted record of an accepted trip request.
type Trip struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	TripID string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"trip_id"`

	TripType        TripType `gorm:"type:varchar(20);not null;default:'interstate'" json:"trip_type"`
	CurrentLocation string   `gorm:"type:varchar(255);not null" json:"current_location"`
	PickupLocation  string   `gorm:"type:varchar(255);not null" json:"pickup_location"`
	DropoffLocation string   `gorm:"type:varchar(255);not null" json:"dropoff_location"`

	CycleHoursUsed    float64 `gorm:"not null;default:0" json:"current_cycle_used"`
	CMVWeightLbs      int     `gorm:"not null;default:10001" json:"cmv_weight"`
	RequiresCDL       bool    `gorm:"not null;default:true" json:"requires_cdl"`
	AdverseConditions bool    `gorm:"not null;default:false" json:"adverse_conditions"`
	IncludesHazmat    bool    `gorm:"not null;default:false" json:"includes_hazmat"`

	TotalDistanceMiles float64 `json:"total_distance_miles"`
	TotalDays          int     `json:"total_days"`
	IsCompliant        bool    `json:"is_compliant"`
	ViolationCount     int     `json:"violation_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Logs []EldLog `gorm:"foreignKey:TripRecordID" json:"eld_logs,omitempty"`
}

func (Trip) TableName() string {
	return "trips"
}

func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
