package playcricket

import (
	"errors"
	"testing"
	"time"

	"github.com/oakhurst-cc/playcricket-stats/internal/usecase"
)

func TestParseMatchSummaries(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"matches":[
		{"id":123456,"status":"Complete","match_date":"14/06/2025",
		 "competition_type":"League","competition_name":"Division Two",
		 "home_club_name":"Oakhurst CC","home_team_name":"1st XI","home_team_id":"777",
		 "away_club_name":"Riverside CC","away_team_name":"2nd XI","away_team_id":888,
		 "ground_name":"The Paddock"},
		{"id":"123457","status":"New","match_date":"21/06/2025",
		 "competition_type":"Friendly","home_club_name":"Oakhurst CC","home_team_name":"Sunday XI"}
	]}`)

	out, err := parseMatchSummaries(raw)
	if err != nil {
		t.Fatalf("parseMatchSummaries: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(out))
	}

	first := out[0]
	if first.MatchID != "123456" {
		t.Fatalf("unexpected match id %q", first.MatchID)
	}
	if first.Status != usecase.MatchStatusCompleted {
		t.Fatalf("expected completed status, got %q", first.Status)
	}
	if !first.MatchDate.Equal(time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected match date %v", first.MatchDate)
	}
	if first.AwayTeamID != "888" {
		t.Fatalf("numeric team id should decode as string, got %q", first.AwayTeamID)
	}

	if out[1].Status != usecase.MatchStatusNotStarted {
		t.Fatalf("expected not started status, got %q", out[1].Status)
	}
}

func TestParseMatchSummariesRejectsBadShape(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing matches key": `{"results":[]}`,
		"empty id":            `{"matches":[{"id":"","status":"New","match_date":"14/06/2025"}]}`,
		"bad date":            `{"matches":[{"id":"1","status":"New","match_date":"2025-06-14"}]}`,
		"unknown status":      `{"matches":[{"id":"1","status":"Cancelled?","match_date":"14/06/2025"}]}`,
	}

	for name, payload := range cases {
		payload := payload
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := parseMatchSummaries([]byte(payload))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if verr.Endpoint != "matches.json" {
				t.Fatalf("unexpected endpoint %q", verr.Endpoint)
			}
		})
	}
}

func TestParseResultSummaries(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"result_summary":[
		{"id":123456,"result":"W","result_description":"Oakhurst CC - 1st XI - Won",
		 "result_applied_to":777,"toss":"Oakhurst CC - 1st XI","batted_first":"Riverside CC - 2nd XI"}
	]}`)

	out, err := parseResultSummaries(raw)
	if err != nil {
		t.Fatalf("parseResultSummaries: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 result, got %d", len(out))
	}
	if out[0].MatchID != "123456" || out[0].ResultCode != "W" || out[0].ResultAppliedTo != "777" {
		t.Fatalf("unexpected result row %+v", out[0])
	}
}

func TestParseMatchDetail(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"match_details":[{
		"id":"123456","status":"Complete","match_date":"14/06/2025",
		"toss":"Oakhurst CC - 1st XI","result":"W",
		"innings":[{
			"innings_number":1,"team_batting_id":"777","team_batting_name":"Oakhurst CC - 1st XI",
			"runs":"214","wickets":7,"overs":"45.2","declared":false,
			"extra_byes":4,"extra_leg_byes":2,"extra_wides":"9","extra_no_balls":1,"extra_penalty_runs":0,
			"bat":[
				{"position":1,"batsman_id":5001,"batsman_name":"J Smith","how_out":"ct","fielder_name":"A Fielder","bowler_name":"B Bowler","runs":80,"balls":95,"fours":9,"sixes":1},
				{"position":2,"batsman_id":"","batsman_name":"","how_out":"did not bat","runs":0,"balls":0}
			],
			"bowl":[
				{"bowler_id":"6001","bowler_name":"B Bowler","overs":"12.2","maidens":"3","runs":41,"wickets":4,"wides":2,"no_balls":0}
			],
			"fow":[{"runs":35,"wickets":1,"batsman_out_id":5002,"batsman_out_name":"K Opener"}]
		}]
	}]}`)

	detail, err := parseMatchDetail(raw, "123456")
	if err != nil {
		t.Fatalf("parseMatchDetail: %v", err)
	}
	if detail.MatchID != "123456" || detail.Status != usecase.MatchStatusCompleted {
		t.Fatalf("unexpected header %+v", detail)
	}
	if len(detail.Innings) != 1 {
		t.Fatalf("expected 1 innings, got %d", len(detail.Innings))
	}

	innings := detail.Innings[0]
	if innings.Runs != 214 || innings.Wickets != 7 || innings.Overs != "45.2" {
		t.Fatalf("unexpected innings totals %+v", innings)
	}
	if innings.Extras.Wides != 9 {
		t.Fatalf("string extras should decode as ints, got %+v", innings.Extras)
	}
	if len(innings.Batting) != 1 {
		t.Fatalf("nameless scorecard slots should be dropped, got %d rows", len(innings.Batting))
	}
	if innings.Batting[0].PlayerID != "5001" || innings.Batting[0].Runs != 80 {
		t.Fatalf("unexpected batting line %+v", innings.Batting[0])
	}
	if len(innings.Bowling) != 1 || innings.Bowling[0].Maidens != 3 {
		t.Fatalf("unexpected bowling lines %+v", innings.Bowling)
	}
	if len(innings.FallOfWickets) != 1 || innings.FallOfWickets[0].PlayerID != "5002" {
		t.Fatalf("unexpected fall of wickets %+v", innings.FallOfWickets)
	}
}

func TestParseMatchDetailWrongMatch(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"match_details":[{"id":"999","status":"Complete","innings":[]}]}`)
	_, err := parseMatchDetail(raw, "123456")
	if err == nil {
		t.Fatal("expected a mismatch error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "id" {
		t.Fatalf("expected id validation error, got %v", err)
	}
}

func TestParseLeagueTable(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"league_table":[{
		"id":4321,"name":"Division Two",
		"values":[
			{"position":"1","team_id":"777","team":"Oakhurst CC - 1st XI","p":"10","w":"8","d":"1","l":"1","pts":"201","nrr":"1.24"},
			{"position":"2","team_id":"888","team":"Riverside CC - 2nd XI","p":"10","w":"6","d":"2","l":"2","pts":"180"}
		]
	}]}`)

	table, err := parseLeagueTable(raw, "4321")
	if err != nil {
		t.Fatalf("parseLeagueTable: %v", err)
	}
	if table.DivisionID != "4321" || table.Name != "Division Two" {
		t.Fatalf("unexpected table header %+v", table)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	top := table.Rows[0]
	if top.Position != 1 || top.TeamName != "Oakhurst CC - 1st XI" || top.Points != 201 {
		t.Fatalf("unexpected top row %+v", top)
	}
	if top.Values["nrr"] != "1.24" {
		t.Fatalf("extra columns should survive in Values, got %+v", top.Values)
	}
}

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":            usecase.MatchStatusNotStarted,
		"New":         usecase.MatchStatusNotStarted,
		"Forthcoming": usecase.MatchStatusNotStarted,
		"In Progress": usecase.MatchStatusInProgress,
		"Live":        usecase.MatchStatusInProgress,
		"Complete":    usecase.MatchStatusCompleted,
		"Result":      usecase.MatchStatusCompleted,
	}
	for raw, want := range cases {
		got, err := normalizeStatus(raw)
		if err != nil {
			t.Fatalf("normalizeStatus(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("normalizeStatus(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, err := normalizeStatus("weird"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
