package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DutyStatus string

const (
	DutyStatusDriving DutyStatus = "driving"
	DutyStatusOnDuty  DutyStatus = "on_duty"
	DutyStatusSleeper DutyStatus = "sleeper_berth"
	DutyStatusOffDuty DutyStatus = "off_duty"
)

// IsRest reports whether time in this status counts as rest for HOS purposes.
func (s DutyStatus) IsRest() bool {
	return s == DutyStatusOffDuty || s == DutyStatusSleeper
}

// IsOnDuty reports whether time in this status counts toward the 70-hour cycle.
func (s DutyStatus) IsOnDuty() bool {
	return s == DutyStatusDriving || s == DutyStatusOnDuty
}

// DutySegment is one contiguous block of a single duty status.
//
// StartMinute and EndMinute are absolute minutes since trip start
// (half-open interval). Start, End and DurationHours are the display
// values filled in by the log assembler.
type DutySegment struct {
	Status      DutyStatus `json:"status"`
	StartMinute int        `json:"start_minute"`
	EndMinute   int        `json:"end_minute"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	DurationHrs float64    `json:"duration"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
}

// Remark is a free-text annotation at a duty-status transition.
type Remark struct {
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// DailyLog is one calendar day of the generated record of duty status.
// Segments are contiguous, non-overlapping and tile the full 24-hour day.
type DailyLog struct {
	DayNumber int    `json:"day_number"`
	Date      string `json:"date"`

	Segments []DutySegment `json:"activities"`

	DrivingHours   float64 `json:"driving_hours"`
	OnDutyHours    float64 `json:"on_duty_hours"`
	OffDutyHours   float64 `json:"off_duty_hours"`
	SleeperHours   float64 `json:"sleeper_hours"`
	Cycle8DayTotal float64 `json:"cycle_8day_total"`

	RequiresRestart bool        `json:"requires_restart"`
	Remarks         []Remark    `json:"remarks"`
	Violations      []Violation `json:"violations"`
}

// EldLog is the persisted form of a DailyLog.
type EldLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	TripRecordID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`

	DayNumber int       `gorm:"not null" json:"day_number"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`

	DrivingHours   float64 `gorm:"not null" json:"driving_hours"`
	OnDutyHours    float64 `gorm:"not null" json:"on_duty_hours"`
	OffDutyHours   float64 `gorm:"not null" json:"off_duty_hours"`
	SleeperHours   float64 `gorm:"not null;default:0" json:"sleeper_hours"`
	Cycle8DayTotal float64 `gorm:"not null" json:"cycle_8day_total"`

	RequiresRestart bool `gorm:"not null;default:false" json:"requires_restart"`

	Activities []DutySegment `gorm:"serializer:json;type:jsonb" json:"activities"`
	Remarks    []Remark      `gorm:"serializer:json;type:jsonb" json:"remarks"`
	Violations []Violation   `gorm:"serializer:json;type:jsonb" json:"violations"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EldLog) TableName() string {
	return "eld_logs"
}

func (l *EldLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
