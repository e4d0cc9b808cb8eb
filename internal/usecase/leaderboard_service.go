package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/oakhurst-cc/playcricket-stats/internal/domain/performance"
	"github.com/oakhurst-cc/playcricket-stats/internal/platform/cache"
)

const (
	defaultLeaderboardLimit = 25
	maxLeaderboardLimit     = 100
)

// BattingLeaderboardResult carries the season actually served: when the
// requested season has no rows yet, the previous season is substituted and
// both values are reported so clients can label the fallback.
type BattingLeaderboardResult struct {
	Entries         []performance.BattingAggregate
	Season          int
	RequestedSeason int
}

type BowlingLeaderboardResult struct {
	Entries         []performance.BowlingAggregate
	Season          int
	RequestedSeason int
}

type LeaderboardService struct {
	perfRepo performance.Repository
	store    *cache.Store
}

func NewLeaderboardService(perfRepo performance.Repository, store *cache.Store) *LeaderboardService {
	return &LeaderboardService{
		perfRepo: perfRepo,
		store:    store,
	}
}

func (s *LeaderboardService) Batting(ctx context.Context, filter performance.Filter) (BattingLeaderboardResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Batting")
	defer span.End()

	filter, err := normalizeFilter(filter)
	if err != nil {
		return BattingLeaderboardResult{}, err
	}

	loaded, err := s.cached(ctx, "batting", filter, func(ctx context.Context) (any, error) {
		servedFilter := filter
		entries, err := s.perfRepo.BattingLeaderboard(ctx, servedFilter)
		if err != nil {
			return nil, fmt.Errorf("batting leaderboard season=%d: %w", filter.Season, err)
		}
		if len(entries) == 0 {
			servedFilter.Season = filter.Season - 1
			entries, err = s.perfRepo.BattingLeaderboard(ctx, servedFilter)
			if err != nil {
				return nil, fmt.Errorf("batting leaderboard fallback season=%d: %w", servedFilter.Season, err)
			}
			if len(entries) == 0 {
				servedFilter.Season = filter.Season
			}
		}
		return BattingLeaderboardResult{
			Entries:         entries,
			Season:          servedFilter.Season,
			RequestedSeason: filter.Season,
		}, nil
	})
	if err != nil {
		return BattingLeaderboardResult{}, err
	}

	result, ok := loaded.(BattingLeaderboardResult)
	if !ok {
		return BattingLeaderboardResult{}, fmt.Errorf("unexpected cached value type %T", loaded)
	}
	return result, nil
}

func (s *LeaderboardService) Bowling(ctx context.Context, filter performance.Filter) (BowlingLeaderboardResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Bowling")
	defer span.End()

	filter, err := normalizeFilter(filter)
	if err != nil {
		return BowlingLeaderboardResult{}, err
	}

	loaded, err := s.cached(ctx, "bowling", filter, func(ctx context.Context) (any, error) {
		servedFilter := filter
		entries, err := s.perfRepo.BowlingLeaderboard(ctx, servedFilter)
		if err != nil {
			return nil, fmt.Errorf("bowling leaderboard season=%d: %w", filter.Season, err)
		}
		if len(entries) == 0 {
			servedFilter.Season = filter.Season - 1
			entries, err = s.perfRepo.BowlingLeaderboard(ctx, servedFilter)
			if err != nil {
				return nil, fmt.Errorf("bowling leaderboard fallback season=%d: %w", servedFilter.Season, err)
			}
			if len(entries) == 0 {
				servedFilter.Season = filter.Season
			}
		}
		return BowlingLeaderboardResult{
			Entries:         entries,
			Season:          servedFilter.Season,
			RequestedSeason: filter.Season,
		}, nil
	})
	if err != nil {
		return BowlingLeaderboardResult{}, err
	}

	result, ok := loaded.(BowlingLeaderboardResult)
	if !ok {
		return BowlingLeaderboardResult{}, fmt.Errorf("unexpected cached value type %T", loaded)
	}
	return result, nil
}

// InvalidateSeason drops cached leaderboards after a sync touches rows.
func (s *LeaderboardService) InvalidateSeason(ctx context.Context, season int) {
	if s.store == nil {
		return
	}
	s.store.DeletePrefix(ctx, fmt.Sprintf("leaderboard:batting:%d:", season))
	s.store.DeletePrefix(ctx, fmt.Sprintf("leaderboard:bowling:%d:", season))
}

func (s *LeaderboardService) cached(ctx context.Context, kind string, filter performance.Filter, loader func(context.Context) (any, error)) (any, error) {
	if s.store == nil {
		return loader(ctx)
	}
	return s.store.GetOrLoad(ctx, leaderboardCacheKey(kind, filter), loader)
}

func leaderboardCacheKey(kind string, filter performance.Filter) string {
	junior := "any"
	if filter.IsJunior != nil {
		junior = fmt.Sprintf("%t", *filter.IsJunior)
	}
	return fmt.Sprintf("leaderboard:%s:%d:%s:%s:%s:%d",
		kind,
		filter.Season,
		filter.TeamID,
		strings.Join(filter.CompetitionTypes, ","),
		junior,
		filter.Limit,
	)
}

func normalizeFilter(filter performance.Filter) (performance.Filter, error) {
	if filter.Season <= 0 {
		return performance.Filter{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLeaderboardLimit
	}
	if filter.Limit > maxLeaderboardLimit {
		filter.Limit = maxLeaderboardLimit
	}
	filter.TeamID = strings.TrimSpace(filter.TeamID)

	types := make([]string, 0, len(filter.CompetitionTypes))
	for _, item := range filter.CompetitionTypes {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			types = append(types, trimmed)
		}
	}
	sort.Strings(types)
	filter.CompetitionTypes = types

	return filter, nil
}
