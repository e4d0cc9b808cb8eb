package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/oakhurst-cc/playcricket-stats/internal/usecase"
)

func (h *Handler) ListLinkSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLinkSuggestions")
	defer span.End()

	season, err := requiredSeasonFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	suggestions, err := h.linkService.SuggestLinks(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list link suggestions failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]linkSuggestionDTO, 0, len(suggestions))
	for _, suggestion := range suggestions {
		items = append(items, linkSuggestionDTO{
			PlayerID:   suggestion.PlayerID,
			PlayerName: suggestion.PlayerName,
			MemberID:   suggestion.MemberID,
			MemberName: suggestion.MemberName,
			Score:      suggestion.Score,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) LinkRosterMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LinkRosterMember")
	defer span.End()

	var req linkMemberRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.linkService.LinkMember(ctx, req.MemberID, req.PlayCricketID); err != nil {
		h.logger.WarnContext(ctx, "link roster member failed", "member_id", req.MemberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, linkMemberResponse{
		MemberID:      req.MemberID,
		PlayCricketID: req.PlayCricketID,
	})
}

func (h *Handler) UnlinkRosterMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnlinkRosterMember")
	defer span.End()

	memberID := strings.TrimSpace(r.PathValue("memberID"))
	if err := h.linkService.UnlinkMember(ctx, memberID); err != nil {
		h.logger.WarnContext(ctx, "unlink roster member failed", "member_id", memberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"member_id": memberID})
}

func (h *Handler) ListDuplicateGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDuplicateGroups")
	defer span.End()

	season, err := requiredSeasonFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groups, err := h.linkService.DuplicateGroups(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list duplicate groups failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]duplicateGroupDTO, 0, len(groups))
	for _, group := range groups {
		members := make([]duplicateIdentityDTO, 0, len(group))
		for _, identity := range group {
			members = append(members, duplicateIdentityDTO{
				PlayerID:   identity.PlayerID,
				PlayerName: identity.PlayerName,
			})
		}
		items = append(items, duplicateGroupDTO{Identities: members})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func requiredSeasonFromQuery(r *http.Request) (int, error) {
	rawSeason := strings.TrimSpace(r.URL.Query().Get("season"))
	if rawSeason == "" {
		return 0, fmt.Errorf("%w: season query parameter is required", usecase.ErrInvalidInput)
	}
	season, err := strconv.Atoi(rawSeason)
	if err != nil {
		return 0, fmt.Errorf("%w: season must be an integer year", usecase.ErrInvalidInput)
	}
	return season, nil
}

type linkMemberRequest struct {
	MemberID      string `json:"member_id" validate:"required"`
	PlayCricketID string `json:"play_cricket_id" validate:"required"`
}

type linkMemberResponse struct {
	MemberID      string `json:"member_id"`
	PlayCricketID string `json:"play_cricket_id"`
}

type linkSuggestionDTO struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	MemberID   string  `json:"member_id"`
	MemberName string  `json:"member_name"`
	Score      float64 `json:"score"`
}

type duplicateGroupDTO struct {
	Identities []duplicateIdentityDTO `json:"identities"`
}

type duplicateIdentityDTO struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}
