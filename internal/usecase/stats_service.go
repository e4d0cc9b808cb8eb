package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakhurst-cc/playcricket-stats/internal/domain/performance"
)

type StatsService struct {
	perfRepo performance.Repository
}

func NewStatsService(perfRepo performance.Repository) *StatsService {
	return &StatsService{perfRepo: perfRepo}
}

// PlayerSummary aggregates one player across the whole career, or a single
// season when season is non-nil.
func (s *StatsService) PlayerSummary(ctx context.Context, playerID string, season *int) (performance.PlayerSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.PlayerSummary")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return performance.PlayerSummary{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if season != nil && *season <= 0 {
		return performance.PlayerSummary{}, fmt.Errorf("%w: season must be positive", ErrInvalidInput)
	}

	batting, err := s.perfRepo.PlayerBatting(ctx, playerID, season)
	if err != nil {
		return performance.PlayerSummary{}, fmt.Errorf("player batting summary: %w", err)
	}
	bowling, err := s.perfRepo.PlayerBowling(ctx, playerID, season)
	if err != nil {
		return performance.PlayerSummary{}, fmt.Errorf("player bowling summary: %w", err)
	}

	if batting.Innings == 0 && bowling.Matches == 0 {
		return performance.PlayerSummary{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return performance.PlayerSummary{
		PlayerID: playerID,
		Season:   season,
		Batting:  batting,
		Bowling:  bowling,
	}, nil
}
