package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yunae/gamedash/clock"
	"github.com/yunae/gamedash/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned for unknown game or task-set ids.
	ErrNotFound = errors.New("tasks: not found")
	// ErrLengthMismatch is returned when a state array does not match the
	// stored task count. Nothing is written.
	ErrLengthMismatch = errors.New("tasks: state length does not match task count")
	// ErrUnknownCurrency is returned when a reward references a currency
	// title that does not belong to the game.
	ErrUnknownCurrency = errors.New("tasks: reward references unknown currency")
)

// Period identifies one checklist refresh cycle.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// PeriodConfig is the full replacement definition of one period's checklist.
// Rewards may be nil, meaning "no rewards for any item".
type PeriodConfig struct {
	Tasks   []string              `json:"tasks"`
	Rewards [][]model.RewardEntry `json:"rewards"`
}

// ConfigureInput carries the periods being reconfigured; nil periods are
// left untouched.
type ConfigureInput struct {
	Daily   *PeriodConfig `json:"daily"`
	Weekly  *PeriodConfig `json:"weekly"`
	Monthly *PeriodConfig `json:"monthly"`
}

// StateInput carries per-period full state array replacements; nil periods
// are left untouched.
type StateInput struct {
	Daily   *[]bool `json:"daily_state"`
	Weekly  *[]bool `json:"weekly_state"`
	Monthly *[]bool `json:"monthly_state"`
}

// PeriodView is the read projection of one period, rollups included.
type PeriodView struct {
	Tasks   []string              `json:"tasks"`
	State   []bool                `json:"state"`
	Rewards [][]model.RewardEntry `json:"rewards"`
	// HasTasks distinguishes "no tasks configured" from "all tasks done":
	// Complete is only meaningful when HasTasks is true.
	HasTasks bool `json:"has_tasks"`
	Complete bool `json:"complete"`
}

// View is the read projection of a game's task set.
type View struct {
	ID      int64      `json:"id"`
	GameID  int64      `json:"game_id"`
	Daily   PeriodView `json:"daily"`
	Weekly  PeriodView `json:"weekly"`
	Monthly PeriodView `json:"monthly"`
}

// Service manages task checklists and their completion state.
type Service struct {
	db                 *gorm.DB
	clk                clock.Clock
	logger             *zap.Logger
	defaultRefreshTime string // "HH:MM", used when a game has none configured
}

// NewService creates a tasks Service.
func NewService(db *gorm.DB, clk clock.Clock, defaultRefreshTime string, logger *zap.Logger) *Service {
	if defaultRefreshTime == "" {
		defaultRefreshTime = "00:00"
	}
	return &Service{db: db, clk: clk, logger: logger, defaultRefreshTime: defaultRefreshTime}
}

// Get returns the task set of a game, or ErrNotFound when the game has none.
func (s *Service) Get(ctx context.Context, gameID int64) (*View, error) {
	var set model.TaskSet
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return viewOf(&set), nil
}

// GetByID returns a task set by its own id.
func (s *Service) GetByID(ctx context.Context, id int64) (*View, error) {
	var set model.TaskSet
	if err := s.db.WithContext(ctx).First(&set, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return viewOf(&set), nil
}

// Configure replaces the given periods' task and reward definitions for a
// game, creating the task set on first configuration. Completion state is
// preserved by position when a period keeps its length and reset to all-false
// when the length changes, so state and tasks can never fall out of lockstep.
func (s *Service) Configure(ctx context.Context, gameID int64, in ConfigureInput) (*View, error) {
	var game model.Game
	if err := s.db.WithContext(ctx).First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Validate every provided period before any write.
	titles, err := s.currencyTitles(ctx, gameID)
	if err != nil {
		return nil, err
	}
	for _, pc := range []*PeriodConfig{in.Daily, in.Weekly, in.Monthly} {
		if pc == nil {
			continue
		}
		if err := validatePeriod(pc, titles); err != nil {
			return nil, err
		}
	}

	var set model.TaskSet
	err = s.db.WithContext(ctx).Where("game_id = ?", gameID).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := s.clk.Now()
		set = model.TaskSet{
			GameID:         gameID,
			DailyResetAt:   now,
			WeeklyResetAt:  now,
			MonthlyResetAt: now,
		}
		emptyList := mustJSON([]string{})
		emptyState := mustJSON([]bool{})
		emptyRewards := mustJSON([][]model.RewardEntry{})
		set.DailyTasks, set.DailyState, set.DailyRewards = emptyList, emptyState, emptyRewards
		set.WeeklyTasks, set.WeeklyState, set.WeeklyRewards = emptyList, emptyState, emptyRewards
		set.MonthlyTasks, set.MonthlyState, set.MonthlyRewards = emptyList, emptyState, emptyRewards
		if err := s.db.WithContext(ctx).Create(&set).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	// A reconfigured period counts as freshly reset so the sweep does not
	// clear it again before its next boundary.
	now := s.clk.Now()
	if in.Daily != nil {
		applyPeriod(in.Daily, &set.DailyTasks, &set.DailyState, &set.DailyRewards)
		set.DailyResetAt = now
	}
	if in.Weekly != nil {
		applyPeriod(in.Weekly, &set.WeeklyTasks, &set.WeeklyState, &set.WeeklyRewards)
		set.WeeklyResetAt = now
	}
	if in.Monthly != nil {
		applyPeriod(in.Monthly, &set.MonthlyTasks, &set.MonthlyState, &set.MonthlyRewards)
		set.MonthlyResetAt = now
	}

	if err := s.db.WithContext(ctx).Save(&set).Error; err != nil {
		return nil, err
	}
	s.logger.Info("task set configured", zap.Int64("game_id", gameID), zap.Int64("task_set_id", set.ID))
	return viewOf(&set), nil
}

// UpdateState replaces the provided periods' completion arrays. A provided
// array must match the stored task count exactly; mismatches reject the whole
// call without writing.
func (s *Service) UpdateState(ctx context.Context, taskSetID int64, in StateInput) (*View, error) {
	var set model.TaskSet
	if err := s.db.WithContext(ctx).First(&set, taskSetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	type pending struct {
		col   *datatypes.JSON
		tasks datatypes.JSON
		state []bool
	}
	var updates []pending
	if in.Daily != nil {
		updates = append(updates, pending{&set.DailyState, set.DailyTasks, *in.Daily})
	}
	if in.Weekly != nil {
		updates = append(updates, pending{&set.WeeklyState, set.WeeklyTasks, *in.Weekly})
	}
	if in.Monthly != nil {
		updates = append(updates, pending{&set.MonthlyState, set.MonthlyTasks, *in.Monthly})
	}

	// Validate all periods before touching any.
	for _, u := range updates {
		if len(u.state) != len(decodeStrings(u.tasks)) {
			return nil, ErrLengthMismatch
		}
	}
	for _, u := range updates {
		*u.col = mustJSON(u.state)
	}

	if err := s.db.WithContext(ctx).Save(&set).Error; err != nil {
		return nil, err
	}
	return viewOf(&set), nil
}

func (s *Service) currencyTitles(ctx context.Context, gameID int64) (map[string]bool, error) {
	var currencies []model.Currency
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).Find(&currencies).Error; err != nil {
		return nil, err
	}
	titles := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		titles[c.Title] = true
	}
	return titles, nil
}

func validatePeriod(pc *PeriodConfig, currencyTitles map[string]bool) error {
	if pc.Rewards != nil && len(pc.Rewards) != len(pc.Tasks) {
		return fmt.Errorf("%w: %d reward lists for %d tasks", ErrLengthMismatch, len(pc.Rewards), len(pc.Tasks))
	}
	for _, rewards := range pc.Rewards {
		for _, r := range rewards {
			if !currencyTitles[r.CurrencyTitle] {
				return fmt.Errorf("%w: %q", ErrUnknownCurrency, r.CurrencyTitle)
			}
		}
	}
	return nil
}

// applyPeriod writes a period's new definition, keeping the three arrays in
// lockstep.
func applyPeriod(pc *PeriodConfig, tasksCol, stateCol, rewardsCol *datatypes.JSON) {
	oldTasks := decodeStrings(*tasksCol)
	oldState := decodeBools(*stateCol)

	newState := make([]bool, len(pc.Tasks))
	if len(pc.Tasks) == len(oldTasks) {
		copy(newState, oldState)
	}

	rewards := pc.Rewards
	if rewards == nil {
		rewards = make([][]model.RewardEntry, len(pc.Tasks))
		for i := range rewards {
			rewards[i] = []model.RewardEntry{}
		}
	}

	*tasksCol = mustJSON(pc.Tasks)
	*stateCol = mustJSON(newState)
	*rewardsCol = mustJSON(rewards)
}

func viewOf(set *model.TaskSet) *View {
	return &View{
		ID:      set.ID,
		GameID:  set.GameID,
		Daily:   periodView(set.DailyTasks, set.DailyState, set.DailyRewards),
		Weekly:  periodView(set.WeeklyTasks, set.WeeklyState, set.WeeklyRewards),
		Monthly: periodView(set.MonthlyTasks, set.MonthlyState, set.MonthlyRewards),
	}
}

func periodView(tasksCol, stateCol, rewardsCol datatypes.JSON) PeriodView {
	tasks := decodeStrings(tasksCol)
	state := decodeBools(stateCol)
	rewards := decodeRewards(rewardsCol)

	complete := len(tasks) > 0
	for _, done := range state {
		if !done {
			complete = false
			break
		}
	}
	return PeriodView{
		Tasks:    tasks,
		State:    state,
		Rewards:  rewards,
		HasTasks: len(tasks) > 0,
		Complete: complete,
	}
}

func decodeStrings(j datatypes.JSON) []string {
	out := []string{}
	if len(j) > 0 {
		_ = json.Unmarshal(j, &out)
	}
	return out
}

func decodeBools(j datatypes.JSON) []bool {
	out := []bool{}
	if len(j) > 0 {
		_ = json.Unmarshal(j, &out)
	}
	return out
}

func decodeRewards(j datatypes.JSON) [][]model.RewardEntry {
	out := [][]model.RewardEntry{}
	if len(j) > 0 {
		_ = json.Unmarshal(j, &out)
	}
	return out
}

func mustJSON(v interface{}) datatypes.JSON {
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}
