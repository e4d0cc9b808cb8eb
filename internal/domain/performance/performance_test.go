package performance

import "testing"

func TestBallsFromOvers(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"4.3":  27,
		"10":   60,
		"0.5":  5,
		"45.2": 272,
		"":     0,
		"4.":   24,
		"abc":  0,
		"7.x":  42,
	}
	for overs, want := range cases {
		if got := BallsFromOvers(overs); got != want {
			t.Fatalf("BallsFromOvers(%q) = %d, want %d", overs, got, want)
		}
	}
}

func TestFinalizeBattingSuppressesShortCareers(t *testing.T) {
	t.Parallel()

	agg := BattingAggregate{Innings: 2, NotOuts: 0, Runs: 120, Balls: 80}
	FinalizeBatting(&agg)
	if agg.Average != nil {
		t.Fatalf("average should be suppressed below 3 innings, got %v", *agg.Average)
	}
	if agg.StrikeRate == nil || *agg.StrikeRate != 150 {
		t.Fatalf("unexpected strike rate %v", agg.StrikeRate)
	}
}

func TestFinalizeBattingAverage(t *testing.T) {
	t.Parallel()

	agg := BattingAggregate{Innings: 5, NotOuts: 2, Runs: 90}
	FinalizeBatting(&agg)
	if agg.Average == nil || *agg.Average != 30 {
		t.Fatalf("expected average 30 over 3 dismissals, got %v", agg.Average)
	}
	if agg.StrikeRate != nil {
		t.Fatalf("strike rate without balls should be nil, got %v", *agg.StrikeRate)
	}
}

func TestFinalizeBattingNeverDismissed(t *testing.T) {
	t.Parallel()

	agg := BattingAggregate{Innings: 4, NotOuts: 4, Runs: 60}
	FinalizeBatting(&agg)
	if agg.Average != nil {
		t.Fatalf("average with zero dismissals should be nil, got %v", *agg.Average)
	}
}

func TestFinalizeBowlingSuppressesBelowTenOvers(t *testing.T) {
	t.Parallel()

	// 9.3 overs = 57 balls: under the sixty-ball bar.
	agg := BowlingAggregate{Balls: 57, Runs: 40, Wickets: 5}
	FinalizeBowling(&agg)
	if agg.Average != nil || agg.StrikeRate != nil {
		t.Fatalf("average/strike rate should be suppressed below 60 balls, got %+v", agg)
	}
	if agg.Economy == nil {
		t.Fatal("economy only needs balls, should be set")
	}
}

func TestFinalizeBowlingRates(t *testing.T) {
	t.Parallel()

	agg := BowlingAggregate{Balls: 120, Runs: 80, Wickets: 4}
	FinalizeBowling(&agg)
	if agg.Economy == nil || *agg.Economy != 4 {
		t.Fatalf("expected economy 4.0, got %v", agg.Economy)
	}
	if agg.Average == nil || *agg.Average != 20 {
		t.Fatalf("expected average 20, got %v", agg.Average)
	}
	if agg.StrikeRate == nil || *agg.StrikeRate != 30 {
		t.Fatalf("expected strike rate 30, got %v", agg.StrikeRate)
	}
}

func TestFinalizeBowlingNoWickets(t *testing.T) {
	t.Parallel()

	agg := BowlingAggregate{Balls: 90, Runs: 50}
	FinalizeBowling(&agg)
	if agg.Average != nil || agg.StrikeRate != nil {
		t.Fatalf("wicketless rates should be nil, got %+v", agg)
	}
}
