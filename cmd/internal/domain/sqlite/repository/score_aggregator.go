package repository

import (
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/metrics"

	"gorm.io/gorm"
)

// ScoreChange is the score a company ended up with after its rate set changed.
type ScoreChange struct {
	CompanyID int
	Score     float64
}

// ScoreAggregator keeps companies.score equal to the mean of the company's rates.
type ScoreAggregator struct{}

func NewScoreAggregator() *ScoreAggregator {
	return &ScoreAggregator{}
}

// Recompute must run on the same transaction that changed the rate set, so the
// read of the rates and the write of the score commit together.
//
// A company without rates gets a score of 0.
func (a *ScoreAggregator) Recompute(tx *gorm.DB, companyID int) (*ScoreChange, error) {
	var scores []float64
	err := tx.Model(&entity.Rate{}).
		Where("company_id = ?", companyID).
		Pluck("score", &scores).Error
	if err != nil {
		return nil, err
	}

	score := MeanScore(scores)
	err = tx.Model(&entity.Company{}).
		Where("id = ?", companyID).
		Update("score", score).Error
	if err != nil {
		return nil, err
	}

	metrics.ScoreRecomputed()
	return &ScoreChange{CompanyID: companyID, Score: score}, nil
}

// MeanScore returns the arithmetic mean of scores, or 0 for an empty set.
func MeanScore(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
