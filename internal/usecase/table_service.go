package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakhurst-cc/playcricket-stats/internal/platform/cache"
)

// TableService is a cached read-through for division league tables. Tables
// change at most a few times a week, so one TTL'd fetch per division is
// plenty.
type TableService struct {
	provider MatchDataProvider
	store    *cache.Store
}

func NewTableService(provider MatchDataProvider, store *cache.Store) *TableService {
	return &TableService{
		provider: provider,
		store:    store,
	}
}

func (s *TableService) LeagueTable(ctx context.Context, divisionID string) (ExternalLeagueTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.LeagueTable")
	defer span.End()

	divisionID = strings.TrimSpace(divisionID)
	if divisionID == "" {
		return ExternalLeagueTable{}, fmt.Errorf("%w: division id is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return ExternalLeagueTable{}, fmt.Errorf("%w: match data provider is not configured", ErrDependencyUnavailable)
	}

	loader := func(ctx context.Context) (any, error) {
		table, err := s.provider.FetchLeagueTable(ctx, divisionID)
		if err != nil {
			return nil, fmt.Errorf("fetch league table division=%s: %w", divisionID, err)
		}
		return table, nil
	}

	var loaded any
	var err error
	if s.store != nil {
		loaded, err = s.store.GetOrLoad(ctx, "league-table:"+divisionID, loader)
	} else {
		loaded, err = loader(ctx)
	}
	if err != nil {
		return ExternalLeagueTable{}, err
	}

	table, ok := loaded.(ExternalLeagueTable)
	if !ok {
		return ExternalLeagueTable{}, fmt.Errorf("unexpected cached value type %T", loaded)
	}
	return table, nil
}
