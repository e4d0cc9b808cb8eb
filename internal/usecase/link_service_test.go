package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/oakhurst-cc/playcricket-stats/internal/domain/roster"
)

type stubRosterRepo struct {
	mu      sync.Mutex
	members map[string]roster.Member
	setErr  error
}

func newStubRosterRepo(members ...roster.Member) *stubRosterRepo {
	out := &stubRosterRepo{members: make(map[string]roster.Member, len(members))}
	for _, member := range members {
		out.members[member.ID] = member
	}
	return out
}

func (r *stubRosterRepo) List(context.Context) ([]roster.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]roster.Member, 0, len(r.members))
	for _, member := range r.members {
		out = append(out, member)
	}
	return out, nil
}

func (r *stubRosterRepo) GetByID(_ context.Context, memberID string) (roster.Member, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.members[memberID]
	return member, ok, nil
}

func (r *stubRosterRepo) GetByPlayCricketID(_ context.Context, playCricketID string) (roster.Member, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, member := range r.members {
		if member.PlayCricketID == playCricketID {
			return member, true, nil
		}
	}
	return roster.Member{}, false, nil
}

func (r *stubRosterRepo) SetPlayCricketID(_ context.Context, memberID, playCricketID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	member := r.members[memberID]
	member.PlayCricketID = playCricketID
	r.members[memberID] = member
	return nil
}

func (r *stubRosterRepo) ClearPlayCricketID(_ context.Context, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	member := r.members[memberID]
	member.PlayCricketID = ""
	r.members[memberID] = member
	return nil
}

func TestLinkServiceSuggestLinks(t *testing.T) {
	t.Parallel()

	perfRepo := newStubPerformanceRepo()
	perfRepo.unlinked = map[string]string{
		"p1": "John Smith",
		"p2": "Zara Quigley",
	}
	rosterRepo := newStubRosterRepo(
		roster.Member{ID: "mem-1", Name: "Smith John"},
		roster.Member{ID: "mem-2", Name: "Totally Different"},
		roster.Member{ID: "mem-3", Name: "John Smith", PlayCricketID: "p9"},
	)
	service := NewLinkService(perfRepo, rosterRepo, 0.7)

	suggestions, err := service.SuggestLinks(context.Background(), 2025)
	if err != nil {
		t.Fatalf("SuggestLinks: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %+v", suggestions)
	}
	top := suggestions[0]
	if top.PlayerID != "p1" || top.MemberID != "mem-1" {
		t.Fatalf("unexpected suggestion %+v", top)
	}
	if top.Score < 0.9 {
		t.Fatalf("token-reordered names should score high, got %f", top.Score)
	}

	// Suggestions never write.
	member, _, _ := rosterRepo.GetByID(context.Background(), "mem-1")
	if member.PlayCricketID != "" {
		t.Fatal("suggesting a link must not create one")
	}
}

func TestLinkServiceLinkMember(t *testing.T) {
	t.Parallel()

	perfRepo := newStubPerformanceRepo()
	rosterRepo := newStubRosterRepo(
		roster.Member{ID: "mem-1", Name: "John Smith"},
		roster.Member{ID: "mem-2", Name: "Ann Other", PlayCricketID: "p2"},
	)
	service := NewLinkService(perfRepo, rosterRepo, 0)

	if err := service.LinkMember(context.Background(), "mem-1", "p1"); err != nil {
		t.Fatalf("LinkMember: %v", err)
	}
	member, _, _ := rosterRepo.GetByID(context.Background(), "mem-1")
	if member.PlayCricketID != "p1" {
		t.Fatalf("link not written: %+v", member)
	}

	// Same id for a second member is rejected.
	err := service.LinkMember(context.Background(), "mem-1", "p2")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a taken id, got %v", err)
	}

	// Relinking the holder to its own id is a no-op, not a conflict.
	if err := service.LinkMember(context.Background(), "mem-2", "p2"); err != nil {
		t.Fatalf("self relink should succeed: %v", err)
	}

	if err := service.LinkMember(context.Background(), "ghost", "p3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown member, got %v", err)
	}
}

func TestLinkServiceUnlinkMember(t *testing.T) {
	t.Parallel()

	perfRepo := newStubPerformanceRepo()
	rosterRepo := newStubRosterRepo(roster.Member{ID: "mem-1", Name: "John Smith", PlayCricketID: "p1"})
	service := NewLinkService(perfRepo, rosterRepo, 0)

	if err := service.UnlinkMember(context.Background(), "mem-1"); err != nil {
		t.Fatalf("UnlinkMember: %v", err)
	}
	member, _, _ := rosterRepo.GetByID(context.Background(), "mem-1")
	if member.PlayCricketID != "" {
		t.Fatalf("link not cleared: %+v", member)
	}

	if err := service.UnlinkMember(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLinkServiceDuplicateGroups(t *testing.T) {
	t.Parallel()

	perfRepo := newStubPerformanceRepo()
	perfRepo.unlinked = map[string]string{
		"p1": "John Smith",
		"p2": "Smith John",
		"p3": "Zara Quigley",
	}
	rosterRepo := newStubRosterRepo()
	service := NewLinkService(perfRepo, rosterRepo, 0)

	groups, err := service.DuplicateGroups(context.Background(), 2025)
	if err != nil {
		t.Fatalf("DuplicateGroups: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected one duplicate cluster, got %+v", groups)
	}
	if len(groups[0]) != 2 {
		t.Fatalf("expected p1+p2 clustered, got %+v", groups[0])
	}
	for _, identity := range groups[0] {
		if identity.PlayerID == "p3" {
			t.Fatal("distinct name must not join the cluster")
		}
	}
}
