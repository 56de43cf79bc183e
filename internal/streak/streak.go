package streak

import (
	"sort"
	"time"

	"habit_webapp/internal/domain"
)

// Entry is one graded calendar day.
type Entry struct {
	Day     time.Time
	Outcome domain.Outcome
}

// Result holds the streak values derived from a day sequence.
type Result struct {
	Current int
	Best    int
}

// dayNumber collapses a timestamp to a calendar day ordinal so that
// consecutiveness checks ignore time-of-day and location.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// Compute walks the user's graded days in ascending order and derives
// {current, best}. A defeat resets the run; so does a missing day between
// two entries. The input order does not matter: a sorted copy is used.
func Compute(entries []Entry) Result {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return dayNumber(sorted[i].Day) < dayNumber(sorted[j].Day)
	})

	var res Result
	run := 0
	prev := int64(-1)
	for _, e := range sorted {
		day := dayNumber(e.Day)
		if prev >= 0 && day-prev > 1 {
			// missed day(s) break the run just like a defeat
			run = 0
		}
		prev = day

		if e.Outcome == domain.OutcomeVictory {
			run++
			if run > res.Best {
				res.Best = run
			}
		} else {
			run = 0
		}
	}
	res.Current = run
	return res
}

// PositionOf returns the streak position of the given day within the
// sequence: the run value right after that day is graded. Returns 0 if the
// day is a defeat or has no entry.
func PositionOf(entries []Entry, day time.Time) int {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return dayNumber(sorted[i].Day) < dayNumber(sorted[j].Day)
	})

	target := dayNumber(day)
	run := 0
	prev := int64(-1)
	for _, e := range sorted {
		d := dayNumber(e.Day)
		if prev >= 0 && d-prev > 1 {
			run = 0
		}
		prev = d

		if e.Outcome == domain.OutcomeVictory {
			run++
		} else {
			run = 0
		}

		if d == target {
			return run
		}
	}
	return 0
}

// EffectiveCurrent applies the gap rule against "today": if the most recent
// entry is older than yesterday the user has already missed a day, so the
// streak shown to them is 0 no matter what the stored sequence says.
func EffectiveCurrent(res Result, lastDay, today time.Time) int {
	if lastDay.IsZero() {
		return 0
	}
	if dayNumber(today)-dayNumber(lastDay) > 1 {
		return 0
	}
	return res.Current
}
