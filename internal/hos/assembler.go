package hos

import (
	"fmt"
	"time"

	"eld-trip-service/internal/model"
)

// Assemble is the final formatting pass: calendar dates from the trip start
// date, HH:MM display clocks on every segment, and a remark at every duty
// status transition. Pure formatting, no reordering.
//
// The day sequence must already be 1..n with no gaps; anything else is an
// upstream defect and fails fast.
func Assemble(days []model.DailyLog, startDate time.Time) ([]model.DailyLog, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no daily logs to assemble", ErrInvariant)
	}

	out := make([]model.DailyLog, len(days))
	copy(out, days)

	var prevStatus model.DutyStatus
	for i := range out {
		if out[i].DayNumber != i+1 {
			return nil, fmt.Errorf("%w: day sequence broken at index %d (day_number=%d)", ErrInvariant, i, out[i].DayNumber)
		}
		out[i].Date = startDate.AddDate(0, 0, i).Format("2006-01-02")

		segments := make([]model.DutySegment, len(out[i].Segments))
		copy(segments, out[i].Segments)

		remarks := make([]model.Remark, 0, len(segments))
		for j := range segments {
			seg := &segments[j]
			seg.Start = Clock(seg.StartMinute).String()
			if seg.EndMinute%MinutesPerDay == 0 {
				seg.End = "24:00"
			} else {
				seg.End = Clock(seg.EndMinute).String()
			}
			seg.DurationHrs = RoundHours(seg.EndMinute - seg.StartMinute)

			if (i == 0 && j == 0) || seg.Status != prevStatus {
				remarks = append(remarks, model.Remark{
					Time:        seg.Start,
					Location:    seg.Location,
					Description: seg.Description,
				})
			}
			prevStatus = seg.Status
		}

		out[i].Segments = segments
		out[i].Remarks = remarks
	}

	return out, nil
}
