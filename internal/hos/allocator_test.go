package hos

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eld-trip-service/internal/model"
)

func planWithLegs(cycleHours float64, legs ...model.RouteLeg) model.TripPlan {
	return model.TripPlan{
		CurrentLocation: "Chicago, IL",
		PickupLocation:  "Chicago, IL",
		DropoffLocation: "Dallas, TX",
		Legs:            legs,
		CycleHoursUsed:  cycleHours,
		CMVWeightLbs:    35000,
		RequiresCDL:     true,
	}
}

// countByDescription counts logical segments, merging the pieces a day
// boundary splits a segment into.
func countByDescription(days []model.DailyLog, desc string) int {
	n := 0
	prevDesc := ""
	prevEnd := -1
	for _, day := range days {
		for _, s := range day.Segments {
			continued := s.Description == prevDesc && s.StartMinute == prevEnd && s.StartMinute%MinutesPerDay == 0
			if s.Description == desc && !continued {
				n++
			}
			prevDesc = s.Description
			prevEnd = s.EndMinute
		}
	}
	return n
}

func TestAllocateThousandMileLeg(t *testing.T) {
	plan := planWithLegs(0, model.RouteLeg{
		DistanceMiles:  1000,
		EstimatedHours: 18.18,
		StartLabel:     "Chicago, IL",
		EndLabel:       "Dallas, TX",
	})

	days, err := Allocate(plan)
	require.NoError(t, err)
	require.Len(t, days, 2)

	_, err = flattenAndVerify(days)
	require.NoError(t, err, "every day must tile 1440 contiguous minutes")

	day1, day2 := days[0], days[1]
	assert.Equal(t, 11.0, day1.DrivingHours, "day one driving caps at the 11-hour limit")
	assert.Equal(t, 12.0, day1.OnDutyHours)
	assert.Equal(t, 7.2, day2.DrivingHours)

	first := day1.Segments[0]
	assert.Equal(t, model.DutyStatusOffDuty, first.Status)
	assert.Equal(t, 0, first.StartMinute)
	assert.Equal(t, 360, first.EndMinute, "workday opens at 06:00")

	assert.Equal(t, 1, countByDescription(days, "Pickup - loading cargo"))
	assert.Equal(t, 1, countByDescription(days, "Dropoff - unloading cargo"))
	assert.Equal(t, 1, countByDescription(days, "Fuel stop - refueling vehicle"), "one fuel stop per 1000 miles")
	assert.Equal(t, 1, countByDescription(days, "30-minute break after 8 hours driving"))
	assert.Equal(t, 1, countByDescription(days, "10-hour off-duty period"))

	assert.False(t, day1.RequiresRestart)
	assert.False(t, day2.RequiresRestart)

	_, summary, err := Evaluate(days, plan)
	require.NoError(t, err)
	assert.True(t, summary.IsCompliant, "splitting the leg across two days avoids every limit")
}

func TestAllocateSingleDayTrip(t *testing.T) {
	plan := planWithLegs(0, model.RouteLeg{
		DistanceMiles:  500,
		EstimatedHours: 9.09,
		StartLabel:     "Chicago, IL",
		EndLabel:       "Minneapolis, MN",
	})

	days, err := Allocate(plan)
	require.NoError(t, err)
	require.Len(t, days, 1)

	day := days[0]
	assert.Equal(t, 9.1, day.DrivingHours)
	assert.Equal(t, 0, countByDescription(days, "Fuel stop - refueling vehicle"))
	assert.Equal(t, 1, countByDescription(days, "30-minute break after 8 hours driving"))

	last := day.Segments[len(day.Segments)-1]
	assert.Equal(t, model.DutyStatusOffDuty, last.Status)
	assert.Equal(t, MinutesPerDay, last.EndMinute)
}

func TestAllocateDeterministic(t *testing.T) {
	plan := planWithLegs(10,
		model.RouteLeg{DistanceMiles: 700, EstimatedHours: 12.73, StartLabel: "A", EndLabel: "B"},
		model.RouteLeg{DistanceMiles: 800, EstimatedHours: 14.55, StartLabel: "B", EndLabel: "C"},
	)

	first, err := Allocate(plan)
	require.NoError(t, err)
	second, err := Allocate(plan)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first, second), "same plan must produce identical schedules")
}

func TestAllocateMultiDayTiling(t *testing.T) {
	plan := planWithLegs(0, model.RouteLeg{
		DistanceMiles:  2500,
		EstimatedHours: 45.45,
		StartLabel:     "Los Angeles, CA",
		EndLabel:       "New York, NY",
	})

	days, err := Allocate(plan)
	require.NoError(t, err)
	require.Greater(t, len(days), 3)

	_, err = flattenAndVerify(days)
	require.NoError(t, err)

	for _, day := range days {
		total := 0
		for _, s := range day.Segments {
			total += s.EndMinute - s.StartMinute
		}
		assert.Equal(t, MinutesPerDay, total, "day %d", day.DayNumber)
	}

	assert.Equal(t, 2, countByDescription(days, "Fuel stop - refueling vehicle"))
}

func TestAllocateInsertsRestartOnLongHaul(t *testing.T) {
	plan := planWithLegs(0, model.RouteLeg{
		DistanceMiles:  5000,
		EstimatedHours: 90.91,
		StartLabel:     "Miami, FL",
		EndLabel:       "Seattle, WA",
	})

	days, err := Allocate(plan)
	require.NoError(t, err)

	_, err = flattenAndVerify(days)
	require.NoError(t, err)

	assert.Equal(t, 1, countByDescription(days, "34-hour restart - 8-day cycle reset"))

	sawCeiling := false
	for _, day := range days {
		if day.RequiresRestart {
			sawCeiling = true
		}
	}
	assert.True(t, sawCeiling, "the cycle must reach 70 hours before the restart")
}

func TestAllocateSleeperPolicy(t *testing.T) {
	plan := planWithLegs(0, model.RouteLeg{
		DistanceMiles:  1000,
		EstimatedHours: 18.18,
		StartLabel:     "Chicago, IL",
		EndLabel:       "Dallas, TX",
	})

	days, err := AllocateWithPolicy(plan, Policy{
		RestStatus:         model.DutyStatusSleeper,
		WorkdayStartMinute: 360,
	})
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.Equal(t, 6.0, days[0].SleeperHours, "the 30-minute break and the start of the 10-hour rest both land in the sleeper berth on day one")
	assert.Equal(t, 4.5, days[1].SleeperHours)

	for _, s := range days[0].Segments {
		if s.Description == "30-minute break after 8 hours driving" {
			assert.Equal(t, model.DutyStatusSleeper, s.Status, "inserted breaks follow the rest-status policy")
		}
	}
}

func TestAllocateInputErrors(t *testing.T) {
	_, err := Allocate(model.TripPlan{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	plan := planWithLegs(0, model.RouteLeg{DistanceMiles: 100, EstimatedHours: 2})

	_, err = AllocateWithPolicy(plan, Policy{RestStatus: model.DutyStatusDriving, WorkdayStartMinute: 360})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = AllocateWithPolicy(plan, Policy{RestStatus: model.DutyStatusOffDuty, WorkdayStartMinute: MinutesPerDay})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Allocate(planWithLegs(0, model.RouteLeg{DistanceMiles: 0, EstimatedHours: 0}))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
