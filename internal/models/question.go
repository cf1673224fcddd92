package models

import (
	"time"

	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
	DifficultyExpert Difficulty = "EXPERT"
	// DifficultyMixed is a filter value only; no question row carries it.
	DifficultyMixed Difficulty = "MIXED"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert, DifficultyMixed:
		return true
	}
	return false
}

type Question struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `json:"deleted_at" gorm:"index"`
	CategoryID  uint             `json:"category_id" gorm:"index"`
	Difficulty  Difficulty       `json:"difficulty" gorm:"not null;index"`
	Text        string           `json:"text" gorm:"not null"`
	Explanation string           `json:"explanation"`
	Points      int              `json:"points" gorm:"default:10"`
	Options     []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

type QuestionOption struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	QuestionID  uint           `json:"question_id" gorm:"index"`
	Text        string         `json:"text" gorm:"not null"`
	OptionOrder int            `json:"option_order"`
	IsCorrect   bool           `json:"is_correct"`
}

// PublicOption is the projection of an option that crosses the API boundary.
// It never carries the correct flag.
type PublicOption struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type PublicQuestion struct {
	ID      uint           `json:"id"`
	Text    string         `json:"text"`
	Options []PublicOption `json:"options"`
}

// Public strips the grading data from a question. Anything rendered to a
// player before their answer is scored must go through this projection.
func (q Question) Public() PublicQuestion {
	options := make([]PublicOption, len(q.Options))
	for i, opt := range q.Options {
		options[i] = PublicOption{
			ID:    opt.ID,
			Text:  opt.Text,
			Order: opt.OptionOrder,
		}
	}
	return PublicQuestion{
		ID:      q.ID,
		Text:    q.Text,
		Options: options,
	}
}

// CorrectOption returns the single correct option, or nil when the row set
// is malformed.
func (q Question) CorrectOption() *QuestionOption {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}
