package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/oakhurst-cc/playcricket-stats/internal/usecase"
)

func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeSyncJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.Run(ctx, usecase.SyncInput{
		Seasons: req.Seasons,
		Force:   req.Force,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run sync job failed", "seasons", req.Seasons, "force", req.Force, "error", err)
		writeError(ctx, w, err)
		return
	}

	if h.leaderboardService != nil {
		for _, season := range result.Seasons {
			h.leaderboardService.InvalidateSeason(ctx, season)
		}
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{
		Seasons:          result.Seasons,
		MatchesProcessed: result.MatchesProcessed,
		MatchesSkipped:   result.MatchesSkipped,
		Errors:           result.Errors,
	})
}

func (h *Handler) ListSyncLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncLogs")
	defer span.End()

	limit := 0
	if rawLimit := strings.TrimSpace(r.URL.Query().Get("limit")); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	entries, err := h.syncService.RecentLogs(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list sync logs failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]syncLogDTO, 0, len(entries))
	for _, entry := range entries {
		item := syncLogDTO{
			ID:               entry.ID,
			Season:           entry.Season,
			StartedAt:        entry.StartedAt.UTC().Format(time.RFC3339),
			MatchesProcessed: entry.MatchesProcessed,
			Errors:           entry.Errors,
		}
		if entry.CompletedAt != nil {
			completed := entry.CompletedAt.UTC().Format(time.RFC3339)
			item.CompletedAt = &completed
		}
		items = append(items, item)
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func decodeSyncJobRequest(r *http.Request) (syncJobRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req syncJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return syncJobRequest{}, nil
		}
		return syncJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

type syncJobRequest struct {
	Seasons []int `json:"seasons" validate:"omitempty,max=20,dive,min=1900,max=3000"`
	Force   bool  `json:"force"`
}

type syncResultDTO struct {
	Seasons          []int    `json:"seasons"`
	MatchesProcessed int      `json:"matches_processed"`
	MatchesSkipped   int      `json:"matches_skipped"`
	Errors           []string `json:"errors,omitempty"`
}

type syncLogDTO struct {
	ID               int64   `json:"id"`
	Season           int     `json:"season"`
	StartedAt        string  `json:"started_at"`
	CompletedAt      *string `json:"completed_at"`
	MatchesProcessed int     `json:"matches_processed"`
	Errors           string  `json:"errors,omitempty"`
}
