package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/oakhurst-cc/playcricket-stats/internal/domain/performance"
	"github.com/oakhurst-cc/playcricket-stats/internal/domain/roster"
	"github.com/oakhurst-cc/playcricket-stats/internal/platform/namematch"
)

const (
	defaultSuggestionThreshold = 0.7
	duplicateGroupThreshold    = 0.9
)

// DuplicateIdentity is one member of a probable duplicate-player cluster.
type DuplicateIdentity struct {
	PlayerID   string
	PlayerName string
}

// LinkService manages roster-member-to-player links. Fuzzy name matches only
// ever become suggestions; the sole write path is an explicit admin call.
type LinkService struct {
	perfRepo   performance.Repository
	rosterRepo roster.Repository
	threshold  float64
}

func NewLinkService(perfRepo performance.Repository, rosterRepo roster.Repository, threshold float64) *LinkService {
	if threshold <= 0 || threshold > 1 {
		threshold = defaultSuggestionThreshold
	}
	return &LinkService{
		perfRepo:   perfRepo,
		rosterRepo: rosterRepo,
		threshold:  threshold,
	}
}

// SuggestLinks scores every unlinked scorecard identity from the season
// against every unlinked roster member, highest scores first.
func (s *LinkService) SuggestLinks(ctx context.Context, season int) ([]roster.LinkSuggestion, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LinkService.SuggestLinks")
	defer span.End()

	if season <= 0 {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	unlinked, err := s.perfRepo.ListUnlinkedNames(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list unlinked names season=%d: %w", season, err)
	}
	members, err := s.rosterRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster members: %w", err)
	}

	out := make([]roster.LinkSuggestion, 0, len(unlinked))
	for playerID, playerName := range unlinked {
		for _, member := range members {
			if member.PlayCricketID != "" {
				continue
			}
			score := namematch.Similarity(playerName, member.Name)
			if score < s.threshold {
				continue
			}
			out = append(out, roster.LinkSuggestion{
				PlayerID:   playerID,
				PlayerName: playerName,
				MemberID:   member.ID,
				MemberName: member.Name,
				Score:      score,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out, nil
}

// LinkMember claims a player identity for one member. The same id may not be
// claimed twice.
func (s *LinkService) LinkMember(ctx context.Context, memberID, playCricketID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LinkService.LinkMember")
	defer span.End()

	memberID = strings.TrimSpace(memberID)
	playCricketID = strings.TrimSpace(playCricketID)
	if memberID == "" {
		return fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}
	if playCricketID == "" {
		return fmt.Errorf("%w: play cricket id is required", ErrInvalidInput)
	}

	if _, exists, err := s.rosterRepo.GetByID(ctx, memberID); err != nil {
		return fmt.Errorf("get roster member: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: member=%s", ErrNotFound, memberID)
	}

	holder, taken, err := s.rosterRepo.GetByPlayCricketID(ctx, playCricketID)
	if err != nil {
		return fmt.Errorf("check existing link: %w", err)
	}
	if taken && holder.ID != memberID {
		return fmt.Errorf("%w: play cricket id %s is already linked to member %s", ErrInvalidInput, playCricketID, holder.ID)
	}

	if err := s.rosterRepo.SetPlayCricketID(ctx, memberID, playCricketID); err != nil {
		return fmt.Errorf("set link member=%s: %w", memberID, err)
	}
	return nil
}

func (s *LinkService) UnlinkMember(ctx context.Context, memberID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LinkService.UnlinkMember")
	defer span.End()

	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}

	if _, exists, err := s.rosterRepo.GetByID(ctx, memberID); err != nil {
		return fmt.Errorf("get roster member: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: member=%s", ErrNotFound, memberID)
	}

	if err := s.rosterRepo.ClearPlayCricketID(ctx, memberID); err != nil {
		return fmt.Errorf("clear link member=%s: %w", memberID, err)
	}
	return nil
}

// DuplicateGroups clusters season identities whose names match at or above
// the duplicate threshold. Two ids in one cluster usually means the scorer
// registered the same person twice.
func (s *LinkService) DuplicateGroups(ctx context.Context, season int) ([][]DuplicateIdentity, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LinkService.DuplicateGroups")
	defer span.End()

	if season <= 0 {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	names, err := s.perfRepo.ListUnlinkedNames(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list names season=%d: %w", season, err)
	}

	ids := make([]string, 0, len(names))
	for playerID := range names {
		ids = append(ids, playerID)
	}
	sort.Strings(ids)

	uf := namematch.NewUnionFind()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if namematch.Similarity(names[ids[i]], names[ids[j]]) >= duplicateGroupThreshold {
				uf.Union(ids[i], ids[j])
			}
		}
	}

	groups := uf.Groups(ids)
	out := make([][]DuplicateIdentity, 0, len(groups))
	for _, group := range groups {
		cluster := make([]DuplicateIdentity, 0, len(group))
		for _, playerID := range group {
			cluster = append(cluster, DuplicateIdentity{PlayerID: playerID, PlayerName: names[playerID]})
		}
		out = append(out, cluster)
	}
	return out, nil
}
