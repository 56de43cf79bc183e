package streak

import (
	"testing"
	"time"

	"habit_webapp/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(domain.DayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func entries(pairs ...[2]string) []Entry {
	var out []Entry
	for _, p := range pairs {
		out = append(out, Entry{Day: day(p[0]), Outcome: domain.Outcome(p[1])})
	}
	return out
}

func TestCompute(t *testing.T) {
	cases := []struct {
		name        string
		in          []Entry
		current     int
		best        int
	}{
		{"empty", nil, 0, 0},
		{"single victory", entries([2]string{"2025-03-01", "victory"}), 1, 1},
		{"single defeat", entries([2]string{"2025-03-01", "defeat"}), 0, 0},
		{"three consecutive victories", entries(
			[2]string{"2025-03-01", "victory"},
			[2]string{"2025-03-02", "victory"},
			[2]string{"2025-03-03", "victory"},
		), 3, 3},
		{"defeat resets current but not best", entries(
			[2]string{"2025-03-01", "victory"},
			[2]string{"2025-03-02", "victory"},
			[2]string{"2025-03-03", "defeat"},
			[2]string{"2025-03-04", "victory"},
		), 1, 2},
		{"missing day breaks the run", entries(
			[2]string{"2025-03-01", "victory"},
			[2]string{"2025-03-02", "victory"},
			[2]string{"2025-03-05", "victory"},
		), 1, 2},
		{"month boundary is consecutive", entries(
			[2]string{"2025-02-28", "victory"},
			[2]string{"2025-03-01", "victory"},
		), 2, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.in)
			if got.Current != tc.current || got.Best != tc.best {
				t.Fatalf("Compute() = {%d %d}; want {%d %d}", got.Current, got.Best, tc.current, tc.best)
			}
		})
	}
}

func TestComputeOrderInsensitive(t *testing.T) {
	ordered := entries(
		[2]string{"2025-03-01", "victory"},
		[2]string{"2025-03-02", "defeat"},
		[2]string{"2025-03-03", "victory"},
		[2]string{"2025-03-04", "victory"},
	)
	shuffled := []Entry{ordered[3], ordered[0], ordered[2], ordered[1]}

	a := Compute(ordered)
	b := Compute(shuffled)
	if a != b {
		t.Fatalf("Compute depends on input order: %+v vs %+v", a, b)
	}
}

func TestComputeStrictlyIncreases(t *testing.T) {
	var seq []Entry
	d := day("2025-03-01")
	for i := 0; i < 10; i++ {
		seq = append(seq, Entry{Day: d.AddDate(0, 0, i), Outcome: domain.OutcomeVictory})
		res := Compute(seq)
		if res.Current != i+1 {
			t.Fatalf("after %d victories current = %d; want %d", i+1, res.Current, i+1)
		}
		if res.Best != i+1 {
			t.Fatalf("after %d victories best = %d; want %d", i+1, res.Best, i+1)
		}
	}

	seq = append(seq, Entry{Day: d.AddDate(0, 0, 10), Outcome: domain.OutcomeDefeat})
	if res := Compute(seq); res.Current != 0 {
		t.Fatalf("defeat should reset current, got %d", res.Current)
	}
}

func TestPositionOf(t *testing.T) {
	seq := entries(
		[2]string{"2025-03-01", "victory"},
		[2]string{"2025-03-02", "victory"},
		[2]string{"2025-03-03", "defeat"},
		[2]string{"2025-03-04", "victory"},
	)

	cases := []struct {
		day  string
		want int
	}{
		{"2025-03-01", 1},
		{"2025-03-02", 2},
		{"2025-03-03", 0},
		{"2025-03-04", 1},
		{"2025-03-10", 0}, // no entry
	}
	for _, tc := range cases {
		if got := PositionOf(seq, day(tc.day)); got != tc.want {
			t.Fatalf("PositionOf(%s) = %d; want %d", tc.day, got, tc.want)
		}
	}
}

func TestEffectiveCurrent(t *testing.T) {
	res := Result{Current: 5, Best: 5}

	cases := []struct {
		name    string
		last    string
		today   string
		want    int
	}{
		{"checked in today", "2025-03-10", "2025-03-10", 5},
		{"checked in yesterday", "2025-03-09", "2025-03-10", 5},
		{"missed a day", "2025-03-08", "2025-03-10", 0},
		{"long gone", "2025-02-01", "2025-03-10", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveCurrent(res, day(tc.last), day(tc.today)); got != tc.want {
				t.Fatalf("EffectiveCurrent = %d; want %d", got, tc.want)
			}
		})
	}

	if got := EffectiveCurrent(res, time.Time{}, day("2025-03-10")); got != 0 {
		t.Fatalf("no history should yield 0, got %d", got)
	}
}
