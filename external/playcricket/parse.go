package playcricket

import (
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/oakhurst-cc/playcricket-stats/internal/usecase"
)

// ValidationError reports which endpoint and entity produced an unexpected
// shape, so upstream drift is diagnosable from the sync log alone.
type ValidationError struct {
	Endpoint string
	EntityID string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.EntityID == "" {
		return fmt.Sprintf("playcricket %s: field %s: %s", e.Endpoint, e.Field, e.Reason)
	}
	return fmt.Sprintf("playcricket %s id=%s: field %s: %s", e.Endpoint, e.EntityID, e.Field, e.Reason)
}

func invalid(endpoint, entityID, field, reason string) error {
	return &ValidationError{Endpoint: endpoint, EntityID: entityID, Field: field, Reason: reason}
}

// Play-Cricket serves dates as dd/mm/yyyy.
const upstreamDateLayout = "02/01/2006"

type matchesEnvelope struct {
	Matches []matchSummaryRaw `json:"matches"`
}

type matchSummaryRaw struct {
	ID              flexString `json:"id"`
	Status          string     `json:"status"`
	MatchDate       string     `json:"match_date"`
	CompetitionType string     `json:"competition_type"`
	CompetitionName string     `json:"competition_name"`
	HomeClubName    string     `json:"home_club_name"`
	HomeTeamName    string     `json:"home_team_name"`
	HomeTeamID      flexString `json:"home_team_id"`
	AwayClubName    string     `json:"away_club_name"`
	AwayTeamName    string     `json:"away_team_name"`
	AwayTeamID      flexString `json:"away_team_id"`
	GroundName      string     `json:"ground_name"`
}

func parseMatchSummaries(raw []byte) ([]usecase.ExternalMatchSummary, error) {
	const endpoint = "matches.json"

	var envelope matchesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, invalid(endpoint, "", "matches", "not decodable: "+err.Error())
	}
	if envelope.Matches == nil {
		return nil, invalid(endpoint, "", "matches", "missing")
	}

	out := make([]usecase.ExternalMatchSummary, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		matchID := item.ID.String()
		if matchID == "" {
			return nil, invalid(endpoint, "", "id", "empty")
		}

		status, err := normalizeStatus(item.Status)
		if err != nil {
			return nil, invalid(endpoint, matchID, "status", err.Error())
		}

		matchDate, err := time.Parse(upstreamDateLayout, strings.TrimSpace(item.MatchDate))
		if err != nil {
			return nil, invalid(endpoint, matchID, "match_date", "expected dd/mm/yyyy, got "+item.MatchDate)
		}

		out = append(out, usecase.ExternalMatchSummary{
			MatchID:         matchID,
			Status:          status,
			MatchDate:       matchDate,
			CompetitionType: strings.TrimSpace(item.CompetitionType),
			CompetitionName: strings.TrimSpace(item.CompetitionName),
			HomeClubName:    strings.TrimSpace(item.HomeClubName),
			HomeTeamName:    strings.TrimSpace(item.HomeTeamName),
			HomeTeamID:      item.HomeTeamID.String(),
			AwayClubName:    strings.TrimSpace(item.AwayClubName),
			AwayTeamName:    strings.TrimSpace(item.AwayTeamName),
			AwayTeamID:      item.AwayTeamID.String(),
			GroundName:      strings.TrimSpace(item.GroundName),
		})
	}

	return out, nil
}

type resultSummaryEnvelope struct {
	ResultSummary []resultSummaryRaw `json:"result_summary"`
}

type resultSummaryRaw struct {
	ID                flexString `json:"id"`
	Result            string     `json:"result"`
	ResultDescription string     `json:"result_description"`
	ResultAppliedTo   flexString `json:"result_applied_to"`
	Toss              string     `json:"toss"`
	BattedFirst       string     `json:"batted_first"`
}

func parseResultSummaries(raw []byte) ([]usecase.ExternalResultSummary, error) {
	const endpoint = "result_summary.json"

	var envelope resultSummaryEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, invalid(endpoint, "", "result_summary", "not decodable: "+err.Error())
	}
	if envelope.ResultSummary == nil {
		return nil, invalid(endpoint, "", "result_summary", "missing")
	}

	out := make([]usecase.ExternalResultSummary, 0, len(envelope.ResultSummary))
	for _, item := range envelope.ResultSummary {
		matchID := item.ID.String()
		if matchID == "" {
			return nil, invalid(endpoint, "", "id", "empty")
		}

		out = append(out, usecase.ExternalResultSummary{
			MatchID:           matchID,
			ResultCode:        strings.TrimSpace(item.Result),
			ResultDescription: strings.TrimSpace(item.ResultDescription),
			ResultAppliedTo:   item.ResultAppliedTo.String(),
			Toss:              strings.TrimSpace(item.Toss),
			BattedFirst:       strings.TrimSpace(item.BattedFirst),
		})
	}

	return out, nil
}

type matchDetailEnvelope struct {
	MatchDetails []matchDetailRaw `json:"match_details"`
}

type matchDetailRaw struct {
	ID                flexString   `json:"id"`
	Status            string       `json:"status"`
	MatchDate         string       `json:"match_date"`
	Toss              string       `json:"toss"`
	Result            string       `json:"result"`
	ResultDescription string       `json:"result_description"`
	ResultAppliedTo   flexString   `json:"result_applied_to"`
	Innings           []inningsRaw `json:"innings"`
}

type inningsRaw struct {
	InningsNumber    flexInt           `json:"innings_number"`
	TeamBattingID    flexString        `json:"team_batting_id"`
	TeamBattingName  string            `json:"team_batting_name"`
	Runs             flexInt           `json:"runs"`
	Wickets          flexInt           `json:"wickets"`
	Overs            string            `json:"overs"`
	Declared         bool              `json:"declared"`
	ExtraByes        flexInt           `json:"extra_byes"`
	ExtraLegByes     flexInt           `json:"extra_leg_byes"`
	ExtraWides       flexInt           `json:"extra_wides"`
	ExtraNoBalls     flexInt           `json:"extra_no_balls"`
	ExtraPenaltyRuns flexInt           `json:"extra_penalty_runs"`
	Bat              []battingLineRaw  `json:"bat"`
	Bowl             []bowlingLineRaw  `json:"bowl"`
	FallOfWickets    []fallOfWicketRaw `json:"fow"`
}

type battingLineRaw struct {
	Position    flexInt    `json:"position"`
	BatsmanID   flexString `json:"batsman_id"`
	BatsmanName string     `json:"batsman_name"`
	HowOut      string     `json:"how_out"`
	FielderID   flexString `json:"fielder_id"`
	FielderName string     `json:"fielder_name"`
	BowlerID    flexString `json:"bowler_id"`
	BowlerName  string     `json:"bowler_name"`
	Runs        flexInt    `json:"runs"`
	Balls       flexInt    `json:"balls"`
	Fours       flexInt    `json:"fours"`
	Sixes       flexInt    `json:"sixes"`
}

type bowlingLineRaw struct {
	BowlerID   flexString `json:"bowler_id"`
	BowlerName string     `json:"bowler_name"`
	Overs      string     `json:"overs"`
	Maidens    flexInt    `json:"maidens"`
	Runs       flexInt    `json:"runs"`
	Wickets    flexInt    `json:"wickets"`
	Wides      flexInt    `json:"wides"`
	NoBalls    flexInt    `json:"no_balls"`
}

type fallOfWicketRaw struct {
	Runs        flexInt    `json:"runs"`
	Wickets     flexInt    `json:"wickets"`
	BatsmanID   flexString `json:"batsman_out_id"`
	BatsmanName string     `json:"batsman_out_name"`
}

func parseMatchDetail(raw []byte, wantMatchID string) (usecase.ExternalMatchDetail, error) {
	const endpoint = "match_detail.json"

	var envelope matchDetailEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return usecase.ExternalMatchDetail{}, invalid(endpoint, wantMatchID, "match_details", "not decodable: "+err.Error())
	}
	if len(envelope.MatchDetails) == 0 {
		return usecase.ExternalMatchDetail{}, invalid(endpoint, wantMatchID, "match_details", "empty")
	}

	item := envelope.MatchDetails[0]
	matchID := item.ID.String()
	if matchID == "" {
		return usecase.ExternalMatchDetail{}, invalid(endpoint, wantMatchID, "id", "empty")
	}
	if wantMatchID != "" && matchID != wantMatchID {
		return usecase.ExternalMatchDetail{}, invalid(endpoint, wantMatchID, "id", "response is for match "+matchID)
	}

	status, err := normalizeStatus(item.Status)
	if err != nil {
		return usecase.ExternalMatchDetail{}, invalid(endpoint, matchID, "status", err.Error())
	}

	// match_date is optional here; the summary row is authoritative for it.
	var matchDate time.Time
	if trimmed := strings.TrimSpace(item.MatchDate); trimmed != "" {
		matchDate, err = time.Parse(upstreamDateLayout, trimmed)
		if err != nil {
			return usecase.ExternalMatchDetail{}, invalid(endpoint, matchID, "match_date", "expected dd/mm/yyyy, got "+item.MatchDate)
		}
	}

	detail := usecase.ExternalMatchDetail{
		MatchID:           matchID,
		Status:            status,
		MatchDate:         matchDate,
		Toss:              strings.TrimSpace(item.Toss),
		ResultCode:        strings.TrimSpace(item.Result),
		ResultDescription: strings.TrimSpace(item.ResultDescription),
		ResultAppliedTo:   item.ResultAppliedTo.String(),
		Innings:           make([]usecase.ExternalInnings, 0, len(item.Innings)),
	}

	for idx, inn := range item.Innings {
		number := inn.InningsNumber.Int()
		if number <= 0 {
			number = idx + 1
		}

		parsed := usecase.ExternalInnings{
			InningsNumber:   number,
			TeamBattingID:   inn.TeamBattingID.String(),
			TeamBattingName: strings.TrimSpace(inn.TeamBattingName),
			Runs:            inn.Runs.Int(),
			Wickets:         inn.Wickets.Int(),
			Overs:           strings.TrimSpace(inn.Overs),
			Declared:        inn.Declared,
			Extras: usecase.ExternalExtras{
				Byes:      inn.ExtraByes.Int(),
				LegByes:   inn.ExtraLegByes.Int(),
				Wides:     inn.ExtraWides.Int(),
				NoBalls:   inn.ExtraNoBalls.Int(),
				Penalties: inn.ExtraPenaltyRuns.Int(),
			},
			Batting:       make([]usecase.ExternalBattingLine, 0, len(inn.Bat)),
			Bowling:       make([]usecase.ExternalBowlingLine, 0, len(inn.Bowl)),
			FallOfWickets: make([]usecase.ExternalFallOfWicket, 0, len(inn.FallOfWickets)),
		}

		for _, line := range inn.Bat {
			name := strings.TrimSpace(line.BatsmanName)
			if name == "" {
				// A nameless entry is a blank scorecard slot, not data.
				continue
			}
			parsed.Batting = append(parsed.Batting, usecase.ExternalBattingLine{
				Position:    line.Position.Int(),
				PlayerID:    line.BatsmanID.String(),
				PlayerName:  name,
				HowOut:      strings.TrimSpace(line.HowOut),
				FielderID:   line.FielderID.String(),
				FielderName: strings.TrimSpace(line.FielderName),
				BowlerID:    line.BowlerID.String(),
				BowlerName:  strings.TrimSpace(line.BowlerName),
				Runs:        line.Runs.Int(),
				Balls:       line.Balls.Int(),
				Fours:       line.Fours.Int(),
				Sixes:       line.Sixes.Int(),
			})
		}

		for _, line := range inn.Bowl {
			name := strings.TrimSpace(line.BowlerName)
			if name == "" {
				continue
			}
			parsed.Bowling = append(parsed.Bowling, usecase.ExternalBowlingLine{
				PlayerID:   line.BowlerID.String(),
				PlayerName: name,
				Overs:      strings.TrimSpace(line.Overs),
				Maidens:    line.Maidens.Int(),
				Runs:       line.Runs.Int(),
				Wickets:    line.Wickets.Int(),
				Wides:      line.Wides.Int(),
				NoBalls:    line.NoBalls.Int(),
			})
		}

		for _, fow := range inn.FallOfWickets {
			parsed.FallOfWickets = append(parsed.FallOfWickets, usecase.ExternalFallOfWicket{
				Runs:          fow.Runs.Int(),
				WicketsFallen: fow.Wickets.Int(),
				PlayerID:      fow.BatsmanID.String(),
				PlayerName:    strings.TrimSpace(fow.BatsmanName),
			})
		}

		detail.Innings = append(detail.Innings, parsed)
	}

	return detail, nil
}

type leagueTableEnvelope struct {
	LeagueTable []leagueTableRaw `json:"league_table"`
}

type leagueTableRaw struct {
	ID     flexString          `json:"id"`
	Name   string              `json:"name"`
	Values []map[string]string `json:"values"`
}

func parseLeagueTable(raw []byte, divisionID string) (usecase.ExternalLeagueTable, error) {
	const endpoint = "league_table.json"

	var envelope leagueTableEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return usecase.ExternalLeagueTable{}, invalid(endpoint, divisionID, "league_table", "not decodable: "+err.Error())
	}
	if len(envelope.LeagueTable) == 0 {
		return usecase.ExternalLeagueTable{}, invalid(endpoint, divisionID, "league_table", "empty")
	}

	item := envelope.LeagueTable[0]
	table := usecase.ExternalLeagueTable{
		DivisionID: item.ID.String(),
		Name:       strings.TrimSpace(item.Name),
		Rows:       make([]usecase.ExternalLeagueTableRow, 0, len(item.Values)),
	}
	if table.DivisionID == "" {
		table.DivisionID = divisionID
	}

	for _, rowValues := range item.Values {
		row := usecase.ExternalLeagueTableRow{
			Position: atoiLoose(rowValues["position"]),
			TeamID:   strings.TrimSpace(rowValues["team_id"]),
			TeamName: strings.TrimSpace(rowValues["team"]),
			Played:   atoiLoose(rowValues["p"]),
			Won:      atoiLoose(rowValues["w"]),
			Drawn:    atoiLoose(rowValues["d"]),
			Lost:     atoiLoose(rowValues["l"]),
			Points:   atoiLoose(rowValues["pts"]),
			Values:   make(map[string]string, len(rowValues)),
		}
		if row.TeamName == "" {
			return usecase.ExternalLeagueTable{}, invalid(endpoint, divisionID, "values.team", "empty")
		}
		for key, value := range rowValues {
			row.Values[key] = value
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func normalizeStatus(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "new", "forthcoming", "not started":
		return usecase.MatchStatusNotStarted, nil
	case "in progress", "live":
		return usecase.MatchStatusInProgress, nil
	case "complete", "completed", "result":
		return usecase.MatchStatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown status %q", raw)
	}
}

func atoiLoose(raw string) int {
	out := 0
	for _, r := range strings.TrimSpace(raw) {
		if r < '0' || r > '9' {
			return out
		}
		out = out*10 + int(r-'0')
	}
	return out
}
