package performance

const (
	// Batting averages are noise below three innings.
	minInningsForAverage = 3
	// Bowling average and strike rate need at least ten overs bowled.
	minBallsForBowlingRates = 60
)

// FinalizeBatting fills the derived ratio fields from the counting fields.
// Average is suppressed (nil) below three innings and when the player was
// never dismissed; StrikeRate is suppressed when no balls were recorded,
// which older scorecards often omit.
func FinalizeBatting(agg *BattingAggregate) {
	agg.Average = nil
	agg.StrikeRate = nil

	dismissals := agg.Innings - agg.NotOuts
	if agg.Innings >= minInningsForAverage && dismissals > 0 {
		value := float64(agg.Runs) / float64(dismissals)
		agg.Average = &value
	}
	if agg.Balls > 0 {
		value := float64(agg.Runs) / float64(agg.Balls) * 100
		agg.StrikeRate = &value
	}
}

// FinalizeBowling fills the derived ratio fields from the counting fields.
// Economy only needs balls; Average and StrikeRate are suppressed below
// sixty balls bowled or without a wicket.
func FinalizeBowling(agg *BowlingAggregate) {
	agg.Economy = nil
	agg.Average = nil
	agg.StrikeRate = nil

	if agg.Balls > 0 {
		value := float64(agg.Runs) / (float64(agg.Balls) / 6)
		agg.Economy = &value
	}
	if agg.Balls >= minBallsForBowlingRates && agg.Wickets > 0 {
		average := float64(agg.Runs) / float64(agg.Wickets)
		agg.Average = &average
		strikeRate := float64(agg.Balls) / float64(agg.Wickets)
		agg.StrikeRate = &strikeRate
	}
}
