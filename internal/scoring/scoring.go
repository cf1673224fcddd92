// Package scoring holds the pure score/XP/level math. No state, no I/O;
// callers clamp timeTaken to a non-negative value.
package scoring

import (
	"math"

	"trivia-arena/internal/models"
)

const (
	// FastAnswerThreshold is the elapsed time under which a correct answer
	// earns the flat XP bonus.
	FastAnswerThreshold = 5
	fastXPBonus         = 0.2
)

func difficultyMultiplier(d models.Difficulty) float64 {
	switch d {
	case models.DifficultyEasy:
		return 1.0
	case models.DifficultyMedium:
		return 1.5
	case models.DifficultyHard:
		return 2.0
	case models.DifficultyExpert:
		return 3.0
	}
	return 1.0
}

// timeBonus is monotonically non-increasing in elapsed time so that fast
// answers always earn at least as much as slow ones.
func timeBonus(timeTaken int) float64 {
	switch {
	case timeTaken <= 5:
		return 2.0
	case timeTaken <= 10:
		return 1.5
	case timeTaken <= 15:
		return 1.3
	case timeTaken <= 20:
		return 1.1
	case timeTaken <= 25:
		return 1.0
	}
	return 0.8
}

func baseXP(d models.Difficulty) int {
	switch d {
	case models.DifficultyEasy:
		return 10
	case models.DifficultyMedium:
		return 20
	case models.DifficultyHard:
		return 30
	case models.DifficultyExpert:
		return 50
	}
	return 10
}

// PointsForAnswer computes the points for a correct answer.
func PointsForAnswer(basePoints int, difficulty models.Difficulty, timeTaken int) int {
	if basePoints <= 0 {
		basePoints = 10
	}
	return int(math.Round(float64(basePoints) * difficultyMultiplier(difficulty) * timeBonus(timeTaken)))
}

// XPForAnswer computes the XP for an answer; wrong answers earn nothing.
func XPForAnswer(difficulty models.Difficulty, isCorrect bool, timeTaken int) int {
	if !isCorrect {
		return 0
	}
	bonus := 0.0
	if timeTaken < FastAnswerThreshold {
		bonus = fastXPBonus
	}
	return int(math.Round(float64(baseXP(difficulty)) * (1 + bonus)))
}

// LevelForXP maps cumulative XP to a level. LevelForXP(0) == 1 and the
// function is non-decreasing in xp.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

// XPThresholdForLevel returns the cumulative XP at which a level begins.
// LevelForXP(XPThresholdForLevel(l)) == l for all l >= 1.
func XPThresholdForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return (level - 1) * (level - 1) * 100
}
