package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oakhurst-cc/playcricket-stats/internal/domain/performance"
	"github.com/oakhurst-cc/playcricket-stats/internal/platform/cache"
)

type stubLeaderboardRepo struct {
	stubPerformanceRepo

	mu           sync.Mutex
	battingRows  map[int][]performance.BattingAggregate
	bowlingRows  map[int][]performance.BowlingAggregate
	battingCalls []performance.Filter
}

func (r *stubLeaderboardRepo) BattingLeaderboard(_ context.Context, filter performance.Filter) ([]performance.BattingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.battingCalls = append(r.battingCalls, filter)
	return r.battingRows[filter.Season], nil
}

func (r *stubLeaderboardRepo) BowlingLeaderboard(_ context.Context, filter performance.Filter) ([]performance.BowlingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bowlingRows[filter.Season], nil
}

func TestLeaderboardServiceServesRequestedSeason(t *testing.T) {
	t.Parallel()

	repo := &stubLeaderboardRepo{
		battingRows: map[int][]performance.BattingAggregate{
			2025: {{PlayerID: "p1", PlayerName: "J Smith", Runs: 300, Innings: 5}},
		},
	}
	service := NewLeaderboardService(repo, nil)

	result, err := service.Batting(context.Background(), performance.Filter{Season: 2025})
	if err != nil {
		t.Fatalf("Batting: %v", err)
	}
	if result.Season != 2025 || result.RequestedSeason != 2025 {
		t.Fatalf("unexpected seasons %+v", result)
	}
	if len(result.Entries) != 1 || result.Entries[0].PlayerID != "p1" {
		t.Fatalf("unexpected entries %+v", result.Entries)
	}
}

func TestLeaderboardServiceFallsBackOneSeason(t *testing.T) {
	t.Parallel()

	repo := &stubLeaderboardRepo{
		battingRows: map[int][]performance.BattingAggregate{
			2024: {{PlayerID: "p1", PlayerName: "J Smith", Runs: 300, Innings: 5}},
		},
	}
	service := NewLeaderboardService(repo, nil)

	result, err := service.Batting(context.Background(), performance.Filter{Season: 2025})
	if err != nil {
		t.Fatalf("Batting: %v", err)
	}
	if result.Season != 2024 {
		t.Fatalf("expected fallback season 2024, got %d", result.Season)
	}
	if result.RequestedSeason != 2025 {
		t.Fatalf("requested season must be reported, got %d", result.RequestedSeason)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("expected fallback entries, got %+v", result.Entries)
	}
}

func TestLeaderboardServiceEmptyBothSeasons(t *testing.T) {
	t.Parallel()

	repo := &stubLeaderboardRepo{battingRows: map[int][]performance.BattingAggregate{}}
	service := NewLeaderboardService(repo, nil)

	result, err := service.Batting(context.Background(), performance.Filter{Season: 2025})
	if err != nil {
		t.Fatalf("Batting: %v", err)
	}
	if result.Season != 2025 || len(result.Entries) != 0 {
		t.Fatalf("empty fallback should serve the requested season with no rows, got %+v", result)
	}
}

func TestLeaderboardServiceValidatesAndClampsFilter(t *testing.T) {
	t.Parallel()

	repo := &stubLeaderboardRepo{battingRows: map[int][]performance.BattingAggregate{}}
	service := NewLeaderboardService(repo, nil)

	if _, err := service.Batting(context.Background(), performance.Filter{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing season should be invalid input, got %v", err)
	}

	_, err := service.Batting(context.Background(), performance.Filter{Season: 2025, Limit: 9999})
	if err != nil {
		t.Fatalf("Batting: %v", err)
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.battingCalls[0].Limit != maxLeaderboardLimit {
		t.Fatalf("limit should clamp to %d, got %d", maxLeaderboardLimit, repo.battingCalls[0].Limit)
	}
}

func TestLeaderboardServiceCachesResults(t *testing.T) {
	t.Parallel()

	repo := &stubLeaderboardRepo{
		battingRows: map[int][]performance.BattingAggregate{
			2025: {{PlayerID: "p1"}},
		},
	}
	service := NewLeaderboardService(repo, cache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		if _, err := service.Batting(context.Background(), performance.Filter{Season: 2025}); err != nil {
			t.Fatalf("Batting: %v", err)
		}
	}

	repo.mu.Lock()
	calls := len(repo.battingCalls)
	repo.mu.Unlock()
	if calls != 1 {
		t.Fatalf("repeated identical queries should hit the cache, got %d repo calls", calls)
	}
}

func TestLeaderboardServiceBowlingFallback(t *testing.T) {
	t.Parallel()

	repo := &stubLeaderboardRepo{
		bowlingRows: map[int][]performance.BowlingAggregate{
			2024: {{PlayerID: "p9", Wickets: 30}},
		},
	}
	service := NewLeaderboardService(repo, nil)

	result, err := service.Bowling(context.Background(), performance.Filter{Season: 2025})
	if err != nil {
		t.Fatalf("Bowling: %v", err)
	}
	if result.Season != 2024 || result.RequestedSeason != 2025 {
		t.Fatalf("unexpected seasons %+v", result)
	}
}
