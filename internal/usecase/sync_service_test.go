package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oakhurst-cc/playcricket-stats/internal/domain/matchcache"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/performance"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/synclog"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/team"
)

type stubProvider struct {
	mu            sync.Mutex
	summaries     map[int][]ExternalMatchSummary
	details       map[string]ExternalMatchDetail
	summariesErr  error
	summariesErrs map[int]error
	detailErrs    map[string]error
	detailCalls   []string
}

func (p *stubProvider) FetchMatchSummaries(_ context.Context, season int) ([]ExternalMatchSummary, error) {
	if p.summariesErr != nil {
		return nil, p.summariesErr
	}
	if err := p.summariesErrs[season]; err != nil {
		return nil, err
	}
	return p.summaries[season], nil
}

func (p *stubProvider) FetchResultSummaries(context.Context, int) ([]ExternalResultSummary, error) {
	return nil, nil
}

func (p *stubProvider) FetchMatchDetail(_ context.Context, matchID string) (ExternalMatchDetail, []byte, error) {
	p.mu.Lock()
	p.detailCalls = append(p.detailCalls, matchID)
	p.mu.Unlock()
	if err := p.detailErrs[matchID]; err != nil {
		return ExternalMatchDetail{}, nil, err
	}
	detail, ok := p.details[matchID]
	if !ok {
		return ExternalMatchDetail{}, nil, fmt.Errorf("no detail for %s", matchID)
	}
	return detail, []byte(`{"match_details":[{"id":"` + matchID + `"}]}`), nil
}

func (p *stubProvider) FetchLeagueTable(context.Context, string) (ExternalLeagueTable, error) {
	return ExternalLeagueTable{}, nil
}

func (p *stubProvider) detailCallCount(matchID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, id := range p.detailCalls {
		if id == matchID {
			count++
		}
	}
	return count
}

type stubPerformanceRepo struct {
	mu        sync.Mutex
	upserts   map[string]int
	batting   map[string][]performance.Batting
	bowling   map[string][]performance.Bowling
	upsertErr map[string]error
	unlinked  map[string]string
}

func newStubPerformanceRepo() *stubPerformanceRepo {
	return &stubPerformanceRepo{
		upserts:   make(map[string]int),
		batting:   make(map[string][]performance.Batting),
		bowling:   make(map[string][]performance.Bowling),
		upsertErr: make(map[string]error),
	}
}

func (r *stubPerformanceRepo) UpsertMatch(_ context.Context, matchID string, batting []performance.Batting, bowling []performance.Bowling) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.upsertErr[matchID]; err != nil {
		return err
	}
	r.upserts[matchID]++
	r.batting[matchID] = batting
	r.bowling[matchID] = bowling
	return nil
}

func (r *stubPerformanceRepo) BattingLeaderboard(context.Context, performance.Filter) ([]performance.BattingAggregate, error) {
	return nil, nil
}

func (r *stubPerformanceRepo) BowlingLeaderboard(context.Context, performance.Filter) ([]performance.BowlingAggregate, error) {
	return nil, nil
}

func (r *stubPerformanceRepo) PlayerBatting(context.Context, string, *int) (performance.BattingAggregate, error) {
	return performance.BattingAggregate{}, nil
}

func (r *stubPerformanceRepo) PlayerBowling(context.Context, string, *int) (performance.BowlingAggregate, error) {
	return performance.BowlingAggregate{}, nil
}

func (r *stubPerformanceRepo) ListUnlinkedNames(context.Context, int) (map[string]string, error) {
	return r.unlinked, nil
}

type stubCacheRepo struct {
	mu      sync.Mutex
	entries map[string]matchcache.Entry
}

func newStubCacheRepo() *stubCacheRepo {
	return &stubCacheRepo{entries: make(map[string]matchcache.Entry)}
}

func (r *stubCacheRepo) Get(_ context.Context, matchID string) (matchcache.Entry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[matchID]
	return entry, ok, nil
}

func (r *stubCacheRepo) Put(_ context.Context, entry matchcache.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.MatchID] = entry
	return nil
}

type stubTeamRepo struct {
	mu    sync.Mutex
	teams map[string]team.Team
}

func newStubTeamRepo() *stubTeamRepo {
	return &stubTeamRepo{teams: make(map[string]team.Team)}
}

func (r *stubTeamRepo) Upsert(_ context.Context, items []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		r.teams[item.TeamID] = item
	}
	return nil
}

func (r *stubTeamRepo) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.teams[teamID]
	return item, ok, nil
}

func (r *stubTeamRepo) List(_ context.Context) ([]team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		out = append(out, item)
	}
	return out, nil
}

type stubSyncLogRepo struct {
	mu      sync.Mutex
	entries []synclog.Entry
}

func (r *stubSyncLogRepo) Append(_ context.Context, entry synclog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubSyncLogRepo) ListRecent(_ context.Context, limit int) ([]synclog.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]synclog.Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func matchDay(day int) time.Time {
	return time.Date(2025, time.June, day, 0, 0, 0, 0, time.UTC)
}

func completedSummary(matchID string, day int) ExternalMatchSummary {
	return ExternalMatchSummary{
		MatchID:         matchID,
		Status:          MatchStatusCompleted,
		MatchDate:       matchDay(day),
		CompetitionType: "League",
		HomeClubName:    "Oakhurst CC",
		HomeTeamName:    "1st XI",
		HomeTeamID:      "home-1",
		AwayClubName:    "Riverside CC",
		AwayTeamName:    "2nd XI",
		AwayTeamID:      "away-2",
	}
}

func homeBattingDetail(matchID string) ExternalMatchDetail {
	return ExternalMatchDetail{
		MatchID: matchID,
		Status:  MatchStatusCompleted,
		Innings: []ExternalInnings{
			{
				InningsNumber: 1,
				TeamBattingID: "home-1",
				Batting: []ExternalBattingLine{
					{Position: 1, PlayerID: "p1", PlayerName: "J Smith", HowOut: "ct", Runs: 45, Balls: 60},
					{Position: 2, PlayerID: "p2", PlayerName: "A Jones", HowOut: "not out", Runs: 80, Balls: 90},
					{Position: 3, PlayerID: "p3", PlayerName: "B Brown", HowOut: "did not bat"},
				},
				Bowling: []ExternalBowlingLine{
					{PlayerID: "opp1", PlayerName: "Their Bowler", Overs: "10", Runs: 50, Wickets: 1},
				},
			},
			{
				InningsNumber: 2,
				TeamBattingID: "away-2",
				Batting: []ExternalBattingLine{
					{Position: 1, PlayerID: "opp2", PlayerName: "Their Batter", HowOut: "b", Runs: 30, Balls: 40},
				},
				Bowling: []ExternalBowlingLine{
					{PlayerID: "p4", PlayerName: "C Green", Overs: "12.3", Maidens: 2, Runs: 41, Wickets: 4},
				},
			},
		},
	}
}

func newSyncFixture() (*stubProvider, *stubPerformanceRepo, *stubCacheRepo, *stubTeamRepo, *stubSyncLogRepo, *SyncService) {
	provider := &stubProvider{
		summaries:  map[int][]ExternalMatchSummary{},
		details:    map[string]ExternalMatchDetail{},
		detailErrs: map[string]error{},
	}
	perfRepo := newStubPerformanceRepo()
	cacheRepo := newStubCacheRepo()
	teamRepo := newStubTeamRepo()
	logRepo := &stubSyncLogRepo{}
	service := NewSyncService(provider, perfRepo, cacheRepo, teamRepo, logRepo, SyncConfig{SiteID: "site-1"}, nil)
	return provider, perfRepo, cacheRepo, teamRepo, logRepo, service
}

func TestSyncServiceRunProcessesCompletedMatches(t *testing.T) {
	t.Parallel()

	provider, perfRepo, cacheRepo, teamRepo, logRepo, service := newSyncFixture()
	provider.summaries[2025] = []ExternalMatchSummary{
		completedSummary("m1", 14),
		{MatchID: "m2", Status: MatchStatusNotStarted, MatchDate: matchDay(21), HomeClubName: "Oakhurst CC", HomeTeamID: "home-1", HomeTeamName: "1st XI"},
	}
	provider.details["m1"] = homeBattingDetail("m1")

	result, err := service.Run(context.Background(), SyncInput{Seasons: []int{2025}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.MatchesProcessed != 1 {
		t.Fatalf("expected 1 processed, got %+v", result)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors %v", result.Errors)
	}

	batting := perfRepo.batting["m1"]
	if len(batting) != 2 {
		t.Fatalf("expected 2 batting rows (did-not-bat excluded, opposition excluded), got %d", len(batting))
	}
	if batting[0].NotOut || !batting[1].NotOut {
		t.Fatalf("not-out derivation wrong: %+v", batting)
	}
	if batting[0].CompetitionType != "League" || !batting[0].MatchDate.Equal(matchDay(14)) {
		t.Fatalf("summary fields should flow into rows: %+v", batting[0])
	}

	bowling := perfRepo.bowling["m1"]
	if len(bowling) != 1 || bowling[0].PlayerID != "p4" {
		t.Fatalf("expected only our bowling rows, got %+v", bowling)
	}

	if entry, ok := cacheRepo.entries["m1"]; !ok || !entry.Completed() {
		t.Fatalf("completed match should be cached as completed, got %+v", entry)
	}
	if _, ok := teamRepo.teams["home-1"]; !ok {
		t.Fatal("club team should be cached from the listing")
	}
	if _, ok := teamRepo.teams["away-2"]; ok {
		t.Fatal("opposition team should not be cached")
	}

	if len(logRepo.entries) != 1 || logRepo.entries[0].MatchesProcessed != 1 || logRepo.entries[0].Errors != "" {
		t.Fatalf("unexpected sync log %+v", logRepo.entries)
	}
}

func TestSyncServiceRunSkipsCachedCompletedMatches(t *testing.T) {
	t.Parallel()

	provider, perfRepo, cacheRepo, _, _, service := newSyncFixture()
	provider.summaries[2025] = []ExternalMatchSummary{completedSummary("m1", 14)}
	provider.details["m1"] = homeBattingDetail("m1")
	cacheRepo.entries["m1"] = matchcache.Entry{MatchID: "m1", Status: MatchStatusCompleted}

	result, err := service.Run(context.Background(), SyncInput{Seasons: []int{2025}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.MatchesProcessed != 0 || result.MatchesSkipped != 1 {
		t.Fatalf("expected cached match to be skipped, got %+v", result)
	}
	if provider.detailCallCount("m1") != 0 {
		t.Fatal("cached completed match should not be refetched")
	}
	if perfRepo.upserts["m1"] != 0 {
		t.Fatal("skipped match should not be upserted")
	}
}

func TestSyncServiceRunForceReprocesses(t *testing.T) {
	t.Parallel()

	provider, perfRepo, cacheRepo, _, _, service := newSyncFixture()
	provider.summaries[2025] = []ExternalMatchSummary{completedSummary("m1", 14)}
	provider.details["m1"] = homeBattingDetail("m1")
	cacheRepo.entries["m1"] = matchcache.Entry{MatchID: "m1", Status: MatchStatusCompleted}

	result, err := service.Run(context.Background(), SyncInput{Seasons: []int{2025}, Force: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.MatchesProcessed != 1 {
		t.Fatalf("force should reprocess, got %+v", result)
	}
	if provider.detailCallCount("m1") != 1 {
		t.Fatal("force should refetch the detail")
	}
	if perfRepo.upserts["m1"] != 1 {
		t.Fatal("force should rewrite the rows")
	}
}

func TestSyncServiceRunIsolatesPerMatchFailures(t *testing.T) {
	t.Parallel()

	provider, perfRepo, _, _, logRepo, service := newSyncFixture()
	provider.summaries[2025] = []ExternalMatchSummary{
		completedSummary("m1", 14),
		completedSummary("m2", 15),
	}
	provider.details["m2"] = homeBattingDetail("m2")
	provider.detailErrs["m1"] = fmt.Errorf("boom")

	result, err := service.Run(context.Background(), SyncInput{Seasons: []int{2025}})
	if err != nil {
		t.Fatalf("per-match failures must not fail the run: %v", err)
	}
	if result.MatchesProcessed != 1 {
		t.Fatalf("healthy match should still be processed, got %+v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "m1") {
		t.Fatalf("expected one error naming m1, got %v", result.Errors)
	}
	if perfRepo.upserts["m2"] != 1 {
		t.Fatal("m2 should be upserted despite m1 failing")
	}
	if len(logRepo.entries) != 1 || !strings.Contains(logRepo.entries[0].Errors, "m1") {
		t.Fatalf("sync log should carry the error, got %+v", logRepo.entries)
	}
}

func TestSyncServiceRunSummaryFetchIsFatal(t *testing.T) {
	t.Parallel()

	provider, _, _, _, logRepo, service := newSyncFixture()
	provider.summariesErr = fmt.Errorf("upstream down")

	_, err := service.Run(context.Background(), SyncInput{Seasons: []int{2025}})
	if err == nil {
		t.Fatal("season listing failure should be fatal")
	}
	if len(logRepo.entries) != 1 || !strings.Contains(logRepo.entries[0].Errors, "upstream down") {
		t.Fatalf("fatal error should still be logged, got %+v", logRepo.entries)
	}
}

func TestSyncServiceRunContinuesPastFailedSeasonListing(t *testing.T) {
	t.Parallel()

	provider, perfRepo, _, _, logRepo, service := newSyncFixture()
	provider.summariesErrs = map[int]error{2024: fmt.Errorf("upstream down")}
	provider.summaries[2025] = []ExternalMatchSummary{completedSummary("m1", 14)}
	provider.details["m1"] = homeBattingDetail("m1")

	result, err := service.Run(context.Background(), SyncInput{Seasons: []int{2024, 2025}})
	if err != nil {
		t.Fatalf("one failed season out of two must not fail the run: %v", err)
	}
	if result.MatchesProcessed != 1 || perfRepo.upserts["m1"] != 1 {
		t.Fatalf("healthy season should still be processed, got %+v", result)
	}
	found := false
	for _, msg := range result.Errors {
		if strings.Contains(msg, "2024") && strings.Contains(msg, "upstream down") {
			found = true
		}
	}
	if !found {
		t.Fatalf("failed season should be recorded in the result, got %v", result.Errors)
	}
	if len(logRepo.entries) != 2 {
		t.Fatalf("both seasons should be logged, got %+v", logRepo.entries)
	}
}

func TestSyncServiceRunTalliesSkipsAcrossWorkers(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		summaries:  map[int][]ExternalMatchSummary{},
		details:    map[string]ExternalMatchDetail{},
		detailErrs: map[string]error{},
	}
	perfRepo := newStubPerformanceRepo()
	cacheRepo := newStubCacheRepo()
	logRepo := &stubSyncLogRepo{}
	service := NewSyncService(provider, perfRepo, cacheRepo, newStubTeamRepo(), logRepo, SyncConfig{SiteID: "site-1", MaxConcurrency: 4}, nil)

	var summaries []ExternalMatchSummary
	for i := 1; i <= 6; i++ {
		id := fmt.Sprintf("done-%d", i)
		summaries = append(summaries, completedSummary(id, i))
		provider.details[id] = homeBattingDetail(id)
	}
	for i := 1; i <= 5; i++ {
		summaries = append(summaries, ExternalMatchSummary{
			MatchID:      fmt.Sprintf("upcoming-%d", i),
			Status:       MatchStatusNotStarted,
			MatchDate:    matchDay(20 + i),
			HomeClubName: "Oakhurst CC",
			HomeTeamID:   "home-1",
		})
	}
	provider.summaries[2025] = summaries
	// done-1 is already cached with a result, so a worker skips it.
	if err := cacheRepo.Put(context.Background(), matchcache.Entry{MatchID: "done-1", Status: MatchStatusCompleted, Payload: "{}"}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	result, err := service.Run(context.Background(), SyncInput{Seasons: []int{2025}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.MatchesProcessed != 5 {
		t.Fatalf("expected 5 processed, got %+v", result)
	}
	if result.MatchesSkipped != 6 {
		t.Fatalf("expected 6 skipped (5 unplayed + 1 cached), got %+v", result)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
}

func TestSyncServiceRunNeverFetchesUnfinishedMatches(t *testing.T) {
	t.Parallel()

	provider, _, _, _, _, service := newSyncFixture()
	provider.summaries[2025] = []ExternalMatchSummary{
		{MatchID: "u1", Status: MatchStatusNotStarted, MatchDate: matchDay(20), HomeClubName: "Oakhurst CC", HomeTeamID: "home-1"},
		{MatchID: "u2", Status: MatchStatusInProgress, MatchDate: matchDay(21), HomeClubName: "Oakhurst CC", HomeTeamID: "home-1"},
		completedSummary("m1", 14),
	}
	provider.details["m1"] = homeBattingDetail("m1")

	result, err := service.Run(context.Background(), SyncInput{Seasons: []int{2025}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.MatchesProcessed != 1 || result.MatchesSkipped != 2 {
		t.Fatalf("expected 1 processed, 2 skipped, got %+v", result)
	}
	for _, id := range []string{"u1", "u2"} {
		if provider.detailCallCount(id) != 0 {
			t.Fatalf("detail should not be fetched for unfinished match %s", id)
		}
	}
}

func TestSyncServiceRunRejectsBadSeasons(t *testing.T) {
	t.Parallel()

	_, _, _, _, _, service := newSyncFixture()
	_, err := service.Run(context.Background(), SyncInput{Seasons: []int{-4}})
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected season validation error, got %v", err)
	}
}

func TestIsJuniorTeamName(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"U13 Lions":    true,
		"Under 15s":    true,
		"Junior Girls": true,
		"1st XI":       false,
		"Sunday XI":    false,
	}
	for name, want := range cases {
		if got := isJuniorTeamName(name); got != want {
			t.Fatalf("isJuniorTeamName(%q) = %t, want %t", name, got, want)
		}
	}
}

func TestInferClubName(t *testing.T) {
	t.Parallel()

	summaries := []ExternalMatchSummary{
		{HomeClubName: "Oakhurst CC", AwayClubName: "Riverside CC"},
		{HomeClubName: "Hillfoot CC", AwayClubName: "Oakhurst CC"},
		{HomeClubName: "Oakhurst CC", AwayClubName: "Hillfoot CC"},
	}
	if got := inferClubName(summaries); got != "Oakhurst CC" {
		t.Fatalf("inferClubName = %q", got)
	}
}
