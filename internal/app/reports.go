package service

import (
	"context"
	"math"
	"time"

	"github.com/okian/skillfade/internal/domain/balance"
	"github.com/okian/skillfade/internal/domain/freshness"
	"github.com/okian/skillfade/internal/domain/model"
	"github.com/okian/skillfade/internal/domain/records"
	"github.com/okian/skillfade/pkg/metrics"
)

// FreshnessReport is the read shape for GET /skills/{id}/freshness.
type FreshnessReport struct {
	SkillID           string           `json:"skill_id"`
	Name              string           `json:"name"`
	CreatedAt         time.Time        `json:"created_at"`
	DecayRate         float64          `json:"decay_rate"`
	Freshness         float64          `json:"current_freshness"`
	Level             freshness.Level  `json:"level"`
	DaysSincePractice int              `json:"days_since_practice"`
	LearningCount     int              `json:"learning_count"`
	PracticeCount     int              `json:"practice_count"`
	TargetFreshness   *float64         `json:"target_freshness,omitempty"`
	Warnings          []string         `json:"warnings,omitempty"`
	AsOf              time.Time        `json:"as_of"`
}

// BalanceReport is the read shape for GET /skills/{id}/balance.
type BalanceReport struct {
	SkillID        string                 `json:"skill_id"`
	LearningCount  int                    `json:"learning_count"`
	PracticeCount  int                    `json:"practice_count"`
	Ratio          float64                `json:"ratio"`
	Interpretation balance.Interpretation `json:"interpretation"`
	Description    string                 `json:"description"`
}

// RecordsReport is the read shape for GET /skills/{id}/records.
type RecordsReport struct {
	SkillID string `json:"skill_id"`
	records.Summary
}

// Freshness computes the skill's current score as of the given day, or the
// clock's today when nil.
func (s *Service) Freshness(ctx context.Context, skillID string, asOf *time.Time) (FreshnessReport, error) {
	skill, err := s.store.GetSkill(ctx, skillID)
	if err != nil {
		return FreshnessReport{}, err
	}

	day := s.clk.Today()
	if asOf != nil {
		day = *asOf
	}

	score := freshness.Compute(skill.CreatedAt, skill.Learning, skill.Practice, skill.DecayRate, day)
	score = math.Round(score*100) / 100
	gap := freshness.DaysSincePractice(skill.CreatedAt, skill.Practice, day)

	metrics.RecordFreshnessComputation()

	return FreshnessReport{
		SkillID:           skill.ID,
		Name:              skill.Name,
		CreatedAt:         skill.CreatedAt,
		DecayRate:         skill.DecayRate,
		Freshness:         score,
		Level:             freshness.LevelOf(score),
		DaysSincePractice: gap,
		LearningCount:     len(skill.Learning),
		PracticeCount:     len(skill.Practice),
		TargetFreshness:   skill.TargetFreshness,
		Warnings:          freshness.ScarcityWarnings(len(skill.Learning), len(skill.Practice), gap),
		AsOf:              day,
	}, nil
}

// History reconstructs the skill's daily freshness series over the trailing
// window.
func (s *Service) History(ctx context.Context, skillID string, days int) ([]model.HistoryPoint, error) {
	skill, err := s.store.GetSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}

	points := freshness.History(skill.CreatedAt, skill.Learning, skill.Practice, skill.DecayRate, days, s.clk.Today())
	metrics.RecordHistoryPoints(len(points))
	return points, nil
}

// Records computes the skill's personal records over its whole lifetime.
func (s *Service) Records(ctx context.Context, skillID string) (RecordsReport, error) {
	skill, err := s.store.GetSkill(ctx, skillID)
	if err != nil {
		return RecordsReport{}, err
	}

	summary := records.Calculate(skill.CreatedAt, skill.Learning, skill.Practice, skill.DecayRate, s.clk.Today())
	return RecordsReport{SkillID: skill.ID, Summary: summary}, nil
}

// Balance reports the skill's lifetime learning/practice ratio.
func (s *Service) Balance(ctx context.Context, skillID string) (BalanceReport, error) {
	skill, err := s.store.GetSkill(ctx, skillID)
	if err != nil {
		return BalanceReport{}, err
	}

	ratio := balance.Ratio(len(skill.Learning), len(skill.Practice))
	interp := balance.Interpret(ratio)

	return BalanceReport{
		SkillID:        skill.ID,
		LearningCount:  len(skill.Learning),
		PracticeCount:  len(skill.Practice),
		Ratio:          ratio,
		Interpretation: interp,
		Description:    balance.Describe(interp),
	}, nil
}
