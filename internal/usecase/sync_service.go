package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/oakhurst-cc/playcricket-stats/internal/domain/matchcache"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/performance"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/synclog"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/team"
	"github.com/oakhurst-cc/playcricket-stats/internal/platform/logging"
)

// MatchDataProvider is the upstream scorecard source.
type MatchDataProvider interface {
	FetchMatchSummaries(ctx context.Context, season int) ([]ExternalMatchSummary, error)
	FetchResultSummaries(ctx context.Context, season int) ([]ExternalResultSummary, error)
	FetchMatchDetail(ctx context.Context, matchID string) (ExternalMatchDetail, []byte, error)
	FetchLeagueTable(ctx context.Context, divisionID string) (ExternalLeagueTable, error)
}

type SyncConfig struct {
	// ClubName pins which club in the match listing is ours. When empty it
	// is inferred per season as the club appearing in the most fixtures.
	ClubName       string
	SiteID         string
	ExtraSeasons   []int
	MaxConcurrency int
	// RunDeadline bounds a whole invocation; no new match is started once it
	// is spent. Hosts typically kill the job shortly after, so the default
	// leaves headroom.
	RunDeadline time.Duration
}

type SyncInput struct {
	Seasons []int
	Force   bool
}

type SyncResult struct {
	Seasons          []int
	MatchesProcessed int
	MatchesSkipped   int
	Errors           []string
}

type SyncService struct {
	provider  MatchDataProvider
	perfRepo  performance.Repository
	cacheRepo matchcache.Repository
	teamRepo  team.Repository
	logRepo   synclog.Repository
	cfg       SyncConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewSyncService(
	provider MatchDataProvider,
	perfRepo performance.Repository,
	cacheRepo matchcache.Repository,
	teamRepo team.Repository,
	logRepo synclog.Repository,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	if cfg.RunDeadline <= 0 {
		cfg.RunDeadline = 13 * time.Minute
	}

	return &SyncService{
		provider:  provider,
		perfRepo:  perfRepo,
		cacheRepo: cacheRepo,
		teamRepo:  teamRepo,
		logRepo:   logRepo,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Run synchronizes the requested seasons, or the current season plus the
// configured extras when none are requested. A failed season listing is
// fatal for that season; everything below match granularity is isolated,
// collected into the result and the sync log, and never aborts the run.
func (s *SyncService) Run(ctx context.Context, input SyncInput) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()

	if s.provider == nil || s.perfRepo == nil || s.cacheRepo == nil {
		return SyncResult{}, fmt.Errorf("%w: match data sync is not fully configured", ErrDependencyUnavailable)
	}

	seasons, err := s.resolveSeasons(input.Seasons)
	if err != nil {
		return SyncResult{}, err
	}

	deadline := s.now().Add(s.cfg.RunDeadline)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	// A season whose listing fails is recorded and skipped; the remaining
	// seasons still run. Only every listing failing is fatal.
	result := SyncResult{Seasons: seasons}
	failedSeasons := 0
	var lastSeasonErr error
	for _, season := range seasons {
		processed, skipped, seasonErrs, err := s.syncSeason(ctx, season, input.Force, deadline)
		result.MatchesProcessed += processed
		result.MatchesSkipped += skipped
		result.Errors = append(result.Errors, seasonErrs...)
		if err != nil {
			failedSeasons++
			lastSeasonErr = err
			result.Errors = append(result.Errors, err.Error())
		}
	}
	if failedSeasons == len(seasons) && lastSeasonErr != nil {
		return result, fmt.Errorf("all %d season(s) failed: %w", len(seasons), lastSeasonErr)
	}

	return result, nil
}

// RecentLogs exposes the sync audit trail for operators.
func (s *SyncService) RecentLogs(ctx context.Context, limit int) ([]synclog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.RecentLogs")
	defer span.End()

	if s.logRepo == nil {
		return nil, fmt.Errorf("%w: sync log store is not configured", ErrDependencyUnavailable)
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}

	items, err := s.logRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync logs: %w", err)
	}
	return items, nil
}

func (s *SyncService) resolveSeasons(requested []int) ([]int, error) {
	set := make(map[int]struct{}, len(requested)+len(s.cfg.ExtraSeasons)+1)
	if len(requested) > 0 {
		for _, season := range requested {
			if season < 1900 || season > 3000 {
				return nil, fmt.Errorf("%w: season %d is out of range", ErrInvalidInput, season)
			}
			set[season] = struct{}{}
		}
	} else {
		set[s.now().Year()] = struct{}{}
		for _, season := range s.cfg.ExtraSeasons {
			if season > 0 {
				set[season] = struct{}{}
			}
		}
	}

	out := make([]int, 0, len(set))
	for season := range set {
		out = append(out, season)
	}
	sort.Ints(out)
	return out, nil
}

func (s *SyncService) syncSeason(ctx context.Context, season int, force bool, deadline time.Time) (int, int, []string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.syncSeason")
	defer span.End()

	startedAt := s.now()

	summaries, err := s.provider.FetchMatchSummaries(ctx, season)
	if err != nil {
		fetchErr := fmt.Errorf("fetch match summaries season=%d: %w", season, err)
		s.appendSyncLog(ctx, season, startedAt, 0, []string{fetchErr.Error()})
		return 0, 0, nil, fetchErr
	}

	clubName := s.cfg.ClubName
	if strings.TrimSpace(clubName) == "" {
		clubName = inferClubName(summaries)
	}
	clubTeamIDs := s.refreshTeams(ctx, clubName, summaries)

	var (
		mu        sync.Mutex
		processed int
		skipped   int
		errs      []string
	)

	pool, err := ants.NewPool(s.cfg.MaxConcurrency)
	if err != nil {
		poolErr := fmt.Errorf("create worker pool: %w", err)
		s.appendSyncLog(ctx, season, startedAt, 0, []string{poolErr.Error()})
		return 0, 0, nil, poolErr
	}
	defer pool.Release()

	// notCompleted is tallied on the loop goroutine and folded into skipped
	// after Wait; workers own the shared counters until then.
	var workers sync.WaitGroup
	notCompleted := 0
	for _, summary := range summaries {
		if summary.Status != MatchStatusCompleted {
			notCompleted++
			continue
		}
		if s.now().After(deadline) {
			mu.Lock()
			errs = append(errs, fmt.Sprintf("season %d: run deadline reached before all matches were processed", season))
			processedSoFar := processed
			mu.Unlock()
			s.logger.WarnContext(ctx, "sync deadline reached, leaving remaining matches for the next run",
				"season", season,
				"processed", processedSoFar,
			)
			break
		}

		summary := summary
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			didProcess, err := s.processMatch(ctx, season, summary, clubTeamIDs, force)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Sprintf("match %s: %v", summary.MatchID, err))
				return
			}
			if didProcess {
				processed++
			} else {
				skipped++
			}
		}); err != nil {
			workers.Done()
			mu.Lock()
			errs = append(errs, fmt.Sprintf("match %s: submit worker: %v", summary.MatchID, err))
			mu.Unlock()
		}
	}
	workers.Wait()
	skipped += notCompleted

	s.appendSyncLog(ctx, season, startedAt, processed, errs)
	return processed, skipped, errs, nil
}

// processMatch reports whether the match was (re)processed. Cached entries
// for completed matches never go stale, so an unforced hit is a skip.
func (s *SyncService) processMatch(ctx context.Context, season int, summary ExternalMatchSummary, clubTeamIDs map[string]string, force bool) (bool, error) {
	if !force {
		entry, ok, err := s.cacheRepo.Get(ctx, summary.MatchID)
		if err != nil {
			s.logger.WarnContext(ctx, "match cache read failed, refetching", "match_id", summary.MatchID, "error", err)
		} else if ok && entry.Completed() {
			return false, nil
		}
	}

	detail, raw, err := s.provider.FetchMatchDetail(ctx, summary.MatchID)
	if err != nil {
		return false, fmt.Errorf("fetch detail: %w", err)
	}

	if err := s.cacheRepo.Put(ctx, matchcache.Entry{
		MatchID:   summary.MatchID,
		Payload:   string(raw),
		Status:    detail.Status,
		MatchDate: summary.MatchDate,
		FetchedAt: s.now(),
	}); err != nil {
		s.logger.WarnContext(ctx, "match cache write failed", "match_id", summary.MatchID, "error", err)
	}

	if detail.Status != MatchStatusCompleted {
		return false, nil
	}

	batting, bowling := extractClubPerformances(season, summary, detail, clubTeamIDs)
	if len(batting) == 0 && len(bowling) == 0 {
		return false, nil
	}

	if err := s.perfRepo.UpsertMatch(ctx, summary.MatchID, batting, bowling); err != nil {
		return false, fmt.Errorf("upsert performances: %w", err)
	}
	return true, nil
}

func (s *SyncService) appendSyncLog(ctx context.Context, season int, startedAt time.Time, processed int, errs []string) {
	if s.logRepo == nil {
		return
	}
	completedAt := s.now()
	entry := synclog.Entry{
		Season:           season,
		StartedAt:        startedAt,
		CompletedAt:      &completedAt,
		MatchesProcessed: processed,
		Errors:           strings.Join(errs, "\n"),
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "append sync log failed", "season", season, "error", err)
	}
}

// refreshTeams upserts the club's own teams seen in the season listing and
// returns their ids mapped to team names.
func (s *SyncService) refreshTeams(ctx context.Context, clubName string, summaries []ExternalMatchSummary) map[string]string {
	ids := make(map[string]string, 8)
	items := make([]team.Team, 0, 8)
	now := s.now()

	record := func(teamID, teamName, club string) {
		if club != clubName || teamID == "" {
			return
		}
		if _, seen := ids[teamID]; seen {
			return
		}
		ids[teamID] = teamName
		items = append(items, team.Team{
			TeamID:      teamID,
			Name:        teamName,
			IsJunior:    isJuniorTeamName(teamName),
			SiteID:      s.cfg.SiteID,
			LastUpdated: now,
		})
	}

	for _, summary := range summaries {
		record(summary.HomeTeamID, summary.HomeTeamName, summary.HomeClubName)
		record(summary.AwayTeamID, summary.AwayTeamName, summary.AwayClubName)
	}

	if s.teamRepo != nil && len(items) > 0 {
		if err := s.teamRepo.Upsert(ctx, items); err != nil {
			s.logger.WarnContext(ctx, "team cache refresh failed", "club", clubName, "error", err)
		}
	}
	return ids
}

// inferClubName picks the club appearing in the most fixtures. Every match
// on a club site involves the site's own club, so the mode is the owner.
func inferClubName(summaries []ExternalMatchSummary) string {
	counts := make(map[string]int, 8)
	for _, summary := range summaries {
		if summary.HomeClubName != "" {
			counts[summary.HomeClubName]++
		}
		if summary.AwayClubName != "" {
			counts[summary.AwayClubName]++
		}
	}

	best, bestCount := "", 0
	for club, count := range counts {
		if count > bestCount || (count == bestCount && club < best) {
			best, bestCount = club, count
		}
	}
	return best
}

var juniorTeamMarkers = []string{
	"u9", "u10", "u11", "u12", "u13", "u14", "u15", "u16", "u17", "u18", "u19",
	"under 9", "under 10", "under 11", "under 12", "under 13", "under 14",
	"under 15", "under 16", "under 17", "under 18", "under 19",
	"junior", "colts",
}

func isJuniorTeamName(name string) bool {
	lowered := " " + strings.ToLower(strings.TrimSpace(name)) + " "
	for _, marker := range juniorTeamMarkers {
		if strings.Contains(lowered, " "+marker+" ") || strings.Contains(lowered, " "+marker+"s ") {
			return true
		}
	}
	return false
}

// extractClubPerformances keeps only rows for the club's own players: our
// batting cards from innings our teams batted, our bowling cards from
// innings the opposition batted.
func extractClubPerformances(season int, summary ExternalMatchSummary, detail ExternalMatchDetail, clubTeamIDs map[string]string) ([]performance.Batting, []performance.Bowling) {
	var batting []performance.Batting
	var bowling []performance.Bowling

	for _, innings := range detail.Innings {
		battingTeamID := resolveInningsTeamID(innings, summary)
		_, battingIsOurs := clubTeamIDs[battingTeamID]

		fieldingTeamID := summary.AwayTeamID
		if battingTeamID == summary.AwayTeamID {
			fieldingTeamID = summary.HomeTeamID
		}
		fieldingTeamName, fieldingIsOurs := clubTeamIDs[fieldingTeamID]

		if battingIsOurs {
			for _, line := range innings.Batting {
				if didNotBat(line.HowOut) {
					continue
				}
				batting = append(batting, performance.Batting{
					MatchID:         summary.MatchID,
					PlayerID:        line.PlayerID,
					PlayerName:      line.PlayerName,
					Position:        line.Position,
					HowOut:          line.HowOut,
					FielderName:     line.FielderName,
					BowlerName:      line.BowlerName,
					Runs:            line.Runs,
					Balls:           line.Balls,
					Fours:           line.Fours,
					Sixes:           line.Sixes,
					NotOut:          isNotOut(line.HowOut),
					Season:          season,
					TeamID:          battingTeamID,
					TeamName:        clubTeamIDs[battingTeamID],
					CompetitionType: summary.CompetitionType,
					MatchDate:       summary.MatchDate,
				})
			}
		}

		if fieldingIsOurs {
			for _, line := range innings.Bowling {
				bowling = append(bowling, performance.Bowling{
					MatchID:         summary.MatchID,
					PlayerID:        line.PlayerID,
					PlayerName:      line.PlayerName,
					Overs:           line.Overs,
					Maidens:         line.Maidens,
					Runs:            line.Runs,
					Wickets:         line.Wickets,
					Wides:           line.Wides,
					NoBalls:         line.NoBalls,
					Season:          season,
					TeamID:          fieldingTeamID,
					TeamName:        fieldingTeamName,
					CompetitionType: summary.CompetitionType,
					MatchDate:       summary.MatchDate,
				})
			}
		}
	}

	return batting, bowling
}

func resolveInningsTeamID(innings ExternalInnings, summary ExternalMatchSummary) string {
	if innings.TeamBattingID != "" {
		return innings.TeamBattingID
	}
	if strings.EqualFold(innings.TeamBattingName, summary.HomeTeamName) {
		return summary.HomeTeamID
	}
	if strings.EqualFold(innings.TeamBattingName, summary.AwayTeamName) {
		return summary.AwayTeamID
	}
	return ""
}

func didNotBat(howOut string) bool {
	switch strings.ToLower(strings.TrimSpace(howOut)) {
	case "did not bat", "dnb", "absent":
		return true
	}
	return false
}

func isNotOut(howOut string) bool {
	switch strings.ToLower(strings.TrimSpace(howOut)) {
	case "not out", "no", "retired not out", "rno", "retired hurt", "rh", "":
		return true
	}
	return false
}
