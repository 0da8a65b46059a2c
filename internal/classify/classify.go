// Package classify buckets predicted scores into a qualitative category.
package classify

import "github.com/pavelanni/eduimpact/internal/model"

const (
	passMark      = 10.0
	excellentMark = 15.0
)

// Classify maps three predicted scores to a Category. A score passes when it
// is at least passMark; a student with three passes is a "Good student" only
// when every score is strictly above excellentMark.
func Classify(scores model.ScoreTriple) model.Category {
	passCount := 0
	allExcellent := true
	for _, s := range scores {
		if s >= passMark {
			passCount++
		}
		if !(s > excellentMark) {
			allExcellent = false
		}
	}
	failCount := len(scores) - passCount

	switch {
	case passCount == len(scores) && allExcellent:
		return model.CategoryGood
	case passCount == len(scores):
		return model.CategoryGoodCanBeBetter
	case failCount == 1:
		return model.CategoryScope
	case failCount == 2:
		return model.CategoryCanBeBetter
	default:
		return model.CategoryWorkHardest
	}
}
