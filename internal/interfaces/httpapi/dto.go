package httpapi

import (
	"time"

	"github.com/riskibarqy/weekly-pool/internal/domain/game"
	"github.com/riskibarqy/weekly-pool/internal/domain/prediction"
	"github.com/riskibarqy/weekly-pool/internal/domain/scoring"
	"github.com/riskibarqy/weekly-pool/internal/domain/user"
	"github.com/riskibarqy/weekly-pool/internal/usecase"
)

type submitPredictionRequest struct {
	UserID string `json:"user_id" validate:"max=128"`
	GameID string `json:"game_id" validate:"max=128"`
	Value  string `json:"value" validate:"max=8"`
}

type applyResultRequest struct {
	Result string `json:"result" validate:"max=8"`
}

type updateSystemDayRequest struct {
	Week int     `json:"week" validate:"required,gt=0"`
	Day  *string `json:"day" validate:"omitempty,max=16"`
}

type reconcileRequest struct {
	MaxWorkers int  `json:"max_workers" validate:"gte=0,lte=64"`
	DryRun     bool `json:"dry_run"`
}

type gameDTO struct {
	ID          string `json:"id"`
	Week        int    `json:"week"`
	HomeTeam    string `json:"homeTeam"`
	AwayTeam    string `json:"awayTeam"`
	League      string `json:"league,omitempty"`
	ScheduledAt string `json:"scheduledAt"`
	ClosesAt    string `json:"closesAt"`
	Day         string `json:"day"`
	IsLocked    bool   `json:"isLocked"`
	Manual      bool   `json:"manuallyLocked"`
	IsFinished  bool   `json:"isFinished"`
	Result      string `json:"result,omitempty"`
}

type availabilityDTO struct {
	State            string `json:"state"`
	Reason           string `json:"reason,omitempty"`
	TimerVisible     bool   `json:"timerVisible"`
	SecondsRemaining int64  `json:"secondsRemaining,omitempty"`
	NearClosing      bool   `json:"nearClosing"`
}

type predictionDTO struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	GameID        string `json:"gameId"`
	Value         string `json:"value"`
	SubmittedAt   string `json:"submittedAt"`
	PointsAwarded *int   `json:"pointsAwarded,omitempty"`
}

type boardEntryDTO struct {
	Game         gameDTO         `json:"game"`
	Availability availabilityDTO `json:"availability"`
	Prediction   *predictionDTO  `json:"prediction,omitempty"`
}

type boardDTO struct {
	Week      int             `json:"week"`
	SystemDay string          `json:"systemDay"`
	Now       string          `json:"now"`
	Games     []boardEntryDTO `json:"games"`
}

type gameAvailabilityDTO struct {
	Game         gameDTO         `json:"game"`
	Availability availabilityDTO `json:"availability"`
	SystemDay    string          `json:"systemDay"`
	Now          string          `json:"now"`
}

type awardDTO struct {
	PredictionID string `json:"predictionId"`
	UserID       string `json:"userId"`
	Points       int    `json:"points"`
	Correct      bool   `json:"correct"`
}

type resultDTO struct {
	Game       gameDTO    `json:"game"`
	FinishedAt string     `json:"finishedAt"`
	Awards     []awardDTO `json:"awards"`
}

type userDTO struct {
	ID                 string `json:"id"`
	DisplayName        string `json:"displayName"`
	PlayerCode         string `json:"playerCode,omitempty"`
	Points             int    `json:"points"`
	CorrectPredictions int    `json:"correctPredictions"`
	TotalPredictions   int    `json:"totalPredictions"`
}

type leaderboardEntryDTO struct {
	Rank int `json:"rank"`
	userDTO
}

type systemDayDTO struct {
	Week         int    `json:"week"`
	DayOverride  string `json:"dayOverride,omitempty"`
	EffectiveDay string `json:"effectiveDay"`
	Now          string `json:"now"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

type totalsDTO struct {
	Points  int `json:"points"`
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type reconcileUserDTO struct {
	UserID   string    `json:"userId"`
	Stored   totalsDTO `json:"stored"`
	Computed totalsDTO `json:"computed"`
	Updated  bool      `json:"updated"`
	Error    string    `json:"error,omitempty"`
}

type reconcileDTO struct {
	UserCount    int                `json:"userCount"`
	DriftCount   int                `json:"driftCount"`
	UpdatedCount int                `json:"updatedCount"`
	FailedCount  int                `json:"failedCount"`
	WorkerCount  int                `json:"workerCount"`
	Users        []reconcileUserDTO `json:"users"`
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func gameToDTO(v game.Game, loc *time.Location) gameDTO {
	return gameDTO{
		ID:          v.ID,
		Week:        v.Week,
		HomeTeam:    v.HomeTeam,
		AwayTeam:    v.AwayTeam,
		League:      v.League,
		ScheduledAt: formatTime(v.ScheduledAt),
		ClosesAt:    formatTime(v.ClosesAt),
		Day:         v.DayIn(loc).String(),
		IsLocked:    v.IsLocked,
		Manual:      v.ManuallyLocked,
		IsFinished:  v.IsFinished,
		Result:      string(v.Result),
	}
}

func availabilityToDTO(v game.Availability) availabilityDTO {
	return availabilityDTO{
		State:            string(v.State),
		Reason:           string(v.Reason),
		TimerVisible:     v.TimerVisible,
		SecondsRemaining: v.SecondsRemaining,
		NearClosing:      v.NearClosing,
	}
}

func predictionToDTO(v prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:            v.ID,
		UserID:        v.UserID,
		GameID:        v.GameID,
		Value:         string(v.Value),
		SubmittedAt:   formatTime(v.SubmittedAt),
		PointsAwarded: v.PointsAwarded,
	}
}

func boardToDTO(v usecase.Board, loc *time.Location) boardDTO {
	games := make([]boardEntryDTO, 0, len(v.Entries))
	for _, entry := range v.Entries {
		item := boardEntryDTO{
			Game:         gameToDTO(entry.Game, loc),
			Availability: availabilityToDTO(entry.Availability),
		}
		if entry.Prediction != nil {
			own := predictionToDTO(*entry.Prediction)
			item.Prediction = &own
		}
		games = append(games, item)
	}
	return boardDTO{
		Week:      v.Week,
		SystemDay: v.SystemDay.String(),
		Now:       formatTime(v.Now),
		Games:     games,
	}
}

func gameAvailabilityToDTO(v usecase.GameAvailability, loc *time.Location) gameAvailabilityDTO {
	return gameAvailabilityDTO{
		Game:         gameToDTO(v.Game, loc),
		Availability: availabilityToDTO(v.Availability),
		SystemDay:    v.SystemDay.String(),
		Now:          formatTime(v.Now),
	}
}

func resultToDTO(v usecase.ResultOutcome, loc *time.Location) resultDTO {
	return resultDTO{
		Game:       gameToDTO(v.Game, loc),
		FinishedAt: formatTime(v.Settlement.FinishedAt),
		Awards:     awardsToDTO(v.Settlement.Awards),
	}
}

func awardsToDTO(items []scoring.Award) []awardDTO {
	out := make([]awardDTO, 0, len(items))
	for _, item := range items {
		out = append(out, awardDTO{
			PredictionID: item.PredictionID,
			UserID:       item.UserID,
			Points:       item.Points,
			Correct:      item.Correct,
		})
	}
	return out
}

func userToDTO(v user.User) userDTO {
	return userDTO{
		ID:                 v.ID,
		DisplayName:        v.DisplayName,
		PlayerCode:         v.PlayerCode,
		Points:             v.Points,
		CorrectPredictions: v.CorrectPredictions,
		TotalPredictions:   v.TotalPredictions,
	}
}

func systemDayToDTO(v usecase.SystemDayView) systemDayDTO {
	out := systemDayDTO{
		Week:         v.Setting.Week,
		EffectiveDay: v.EffectiveDay.String(),
		Now:          formatTime(v.Now),
		UpdatedAt:    formatTime(v.Setting.UpdatedAt),
	}
	if v.Setting.DayOverride != nil {
		out.DayOverride = v.Setting.DayOverride.String()
	}
	return out
}

func totalsToDTO(v user.Totals) totalsDTO {
	return totalsDTO{Points: v.Points, Correct: v.Correct, Total: v.Total}
}

func reconcileToDTO(v usecase.ReconcileResult) reconcileDTO {
	users := make([]reconcileUserDTO, 0, len(v.Users))
	for _, item := range v.Users {
		users = append(users, reconcileUserDTO{
			UserID:   item.UserID,
			Stored:   totalsToDTO(item.Stored),
			Computed: totalsToDTO(item.Computed),
			Updated:  item.Updated,
			Error:    item.Error,
		})
	}
	return reconcileDTO{
		UserCount:    v.UserCount,
		DriftCount:   v.DriftCount,
		UpdatedCount: v.UpdatedCount,
		FailedCount:  v.FailedCount,
		WorkerCount:  v.WorkerCount,
		Users:        users,
	}
}
