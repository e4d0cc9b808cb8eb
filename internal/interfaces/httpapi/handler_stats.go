package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/oakhurst-cc/playcricket-stats/internal/domain/performance"
	"github.com/oakhurst-cc/playcricket-stats/internal/usecase"
)

func (h *Handler) GetBattingLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBattingLeaderboard")
	defer span.End()

	filter, err := leaderboardFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.leaderboardService.Batting(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "batting leaderboard failed", "season", filter.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	entries := make([]battingEntryDTO, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, battingAggregateToDTO(entry))
	}

	h.setCacheHeaders(w)
	writeSuccess(ctx, w, http.StatusOK, battingLeaderboardDTO{
		Entries:         entries,
		Season:          result.Season,
		RequestedSeason: result.RequestedSeason,
	})
}

func (h *Handler) GetBowlingLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBowlingLeaderboard")
	defer span.End()

	filter, err := leaderboardFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.leaderboardService.Bowling(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "bowling leaderboard failed", "season", filter.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	entries := make([]bowlingEntryDTO, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, bowlingAggregateToDTO(entry))
	}

	h.setCacheHeaders(w)
	writeSuccess(ctx, w, http.StatusOK, bowlingLeaderboardDTO{
		Entries:         entries,
		Season:          result.Season,
		RequestedSeason: result.RequestedSeason,
	})
}

func (h *Handler) GetPlayerSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerSummary")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	season, err := optionalSeasonFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.statsService.PlayerSummary(ctx, playerID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "player summary failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.setCacheHeaders(w)
	writeSuccess(ctx, w, http.StatusOK, playerSummaryDTO{
		PlayerID: summary.PlayerID,
		Season:   summary.Season,
		Batting:  battingAggregateToDTO(summary.Batting),
		Bowling:  bowlingAggregateToDTO(summary.Bowling),
	})
}

func (h *Handler) GetLeagueTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueTable")
	defer span.End()

	divisionID := strings.TrimSpace(r.URL.Query().Get("divisionId"))
	table, err := h.tableService.LeagueTable(ctx, divisionID)
	if err != nil {
		h.logger.WarnContext(ctx, "league table failed", "division_id", divisionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	rows := make([]leagueTableRowDTO, 0, len(table.Rows))
	for _, row := range table.Rows {
		rows = append(rows, leagueTableRowDTO{
			Position: row.Position,
			TeamID:   row.TeamID,
			TeamName: row.TeamName,
			Played:   row.Played,
			Won:      row.Won,
			Drawn:    row.Drawn,
			Lost:     row.Lost,
			Points:   row.Points,
			Values:   row.Values,
		})
	}

	h.setCacheHeaders(w)
	writeSuccess(ctx, w, http.StatusOK, leagueTableDTO{
		DivisionID: table.DivisionID,
		Name:       table.Name,
		Rows:       rows,
	})
}

func (h *Handler) setCacheHeaders(w http.ResponseWriter) {
	if h.cacheControl == "" {
		return
	}
	w.Header().Set("Cache-Control", h.cacheControl)
}

func leaderboardFilterFromQuery(r *http.Request) (performance.Filter, error) {
	query := r.URL.Query()

	rawSeason := strings.TrimSpace(query.Get("season"))
	if rawSeason == "" {
		return performance.Filter{}, fmt.Errorf("%w: season query parameter is required", usecase.ErrInvalidInput)
	}
	season, err := strconv.Atoi(rawSeason)
	if err != nil {
		return performance.Filter{}, fmt.Errorf("%w: season must be an integer year", usecase.ErrInvalidInput)
	}

	filter := performance.Filter{
		Season: season,
		TeamID: strings.TrimSpace(query.Get("teamId")),
	}

	if rawTypes := strings.TrimSpace(query.Get("competitionTypes")); rawTypes != "" {
		for _, part := range strings.Split(rawTypes, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				filter.CompetitionTypes = append(filter.CompetitionTypes, trimmed)
			}
		}
	}

	if rawJunior := strings.TrimSpace(query.Get("isJunior")); rawJunior != "" {
		junior, err := strconv.ParseBool(rawJunior)
		if err != nil {
			return performance.Filter{}, fmt.Errorf("%w: isJunior must be a boolean", usecase.ErrInvalidInput)
		}
		filter.IsJunior = &junior
	}

	if rawLimit := strings.TrimSpace(query.Get("limit")); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 0 {
			return performance.Filter{}, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
		}
		filter.Limit = limit
	}

	return filter, nil
}

func optionalSeasonFromQuery(r *http.Request) (*int, error) {
	rawSeason := strings.TrimSpace(r.URL.Query().Get("season"))
	if rawSeason == "" {
		return nil, nil
	}
	season, err := strconv.Atoi(rawSeason)
	if err != nil {
		return nil, fmt.Errorf("%w: season must be an integer year", usecase.ErrInvalidInput)
	}
	return &season, nil
}

type battingLeaderboardDTO struct {
	Entries         []battingEntryDTO `json:"entries"`
	Season          int               `json:"season"`
	RequestedSeason int               `json:"requested_season"`
}

type bowlingLeaderboardDTO struct {
	Entries         []bowlingEntryDTO `json:"entries"`
	Season          int               `json:"season"`
	RequestedSeason int               `json:"requested_season"`
}

type battingEntryDTO struct {
	PlayerID   string   `json:"player_id"`
	PlayerName string   `json:"player_name"`
	Innings    int      `json:"innings"`
	NotOuts    int      `json:"not_outs"`
	Runs       int      `json:"runs"`
	HighScore  int      `json:"high_score"`
	Balls      int      `json:"balls"`
	Average    *float64 `json:"average"`
	StrikeRate *float64 `json:"strike_rate"`
	Fifties    int      `json:"fifties"`
	Hundreds   int      `json:"hundreds"`
}

type bowlingEntryDTO struct {
	PlayerID    string   `json:"player_id"`
	PlayerName  string   `json:"player_name"`
	Matches     int      `json:"matches"`
	Wickets     int      `json:"wickets"`
	Runs        int      `json:"runs"`
	Balls       int      `json:"balls"`
	Maidens     int      `json:"maidens"`
	Economy     *float64 `json:"economy"`
	Average     *float64 `json:"average"`
	StrikeRate  *float64 `json:"strike_rate"`
	BestWickets int      `json:"best_wickets"`
}

type playerSummaryDTO struct {
	PlayerID string          `json:"player_id"`
	Season   *int            `json:"season"`
	Batting  battingEntryDTO `json:"batting"`
	Bowling  bowlingEntryDTO `json:"bowling"`
}

type leagueTableDTO struct {
	DivisionID string              `json:"division_id"`
	Name       string              `json:"name"`
	Rows       []leagueTableRowDTO `json:"rows"`
}

type leagueTableRowDTO struct {
	Position int               `json:"position"`
	TeamID   string            `json:"team_id"`
	TeamName string            `json:"team_name"`
	Played   int               `json:"played"`
	Won      int               `json:"won"`
	Drawn    int               `json:"drawn"`
	Lost     int               `json:"lost"`
	Points   int               `json:"points"`
	Values   map[string]string `json:"values,omitempty"`
}

func battingAggregateToDTO(v performance.BattingAggregate) battingEntryDTO {
	return battingEntryDTO{
		PlayerID:   v.PlayerID,
		PlayerName: v.PlayerName,
		Innings:    v.Innings,
		NotOuts:    v.NotOuts,
		Runs:       v.Runs,
		HighScore:  v.HighScore,
		Balls:      v.Balls,
		Average:    v.Average,
		StrikeRate: v.StrikeRate,
		Fifties:    v.Fifties,
		Hundreds:   v.Hundreds,
	}
}

func bowlingAggregateToDTO(v performance.BowlingAggregate) bowlingEntryDTO {
	return bowlingEntryDTO{
		PlayerID:    v.PlayerID,
		PlayerName:  v.PlayerName,
		Matches:     v.Matches,
		Wickets:     v.Wickets,
		Runs:        v.Runs,
		Balls:       v.Balls,
		Maidens:     v.Maidens,
		Economy:     v.Economy,
		Average:     v.Average,
		StrikeRate:  v.StrikeRate,
		BestWickets: v.BestWickets,
	}
}
