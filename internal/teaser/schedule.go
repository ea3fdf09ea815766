package teaser

import "time"

// ComputeSchedule spreads count send slots evenly across the window between
// now and launch. Slot i is now + i*(launch-now)/count, so the last slot
// lands on the launch date itself and the first lands one interval in.
//
// The result is strictly increasing and fully determined by its inputs.
func ComputeSchedule(count int, now, launch time.Time) ([]time.Time, error) {
	if count < 1 {
		return nil, ErrInvalidTeaserCount
	}
	if !launch.After(now) {
		return nil, ErrInvalidScheduleWindow
	}

	interval := launch.Sub(now) / time.Duration(count)
	slots := make([]time.Time, 0, count)
	for i := 1; i <= count; i++ {
		slots = append(slots, now.Add(time.Duration(i)*interval))
	}
	return slots, nil
}
