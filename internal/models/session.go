package models

import (
	"time"

	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "ACTIVE"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionAbandoned SessionStatus = "ABANDONED"
	SessionTimedOut  SessionStatus = "TIMED_OUT"
)

// Terminal reports whether no further transitions may leave the status.
func (s SessionStatus) Terminal() bool {
	return s != SessionActive
}

type GameMode string

const (
	ModeSinglePlayer GameMode = "SINGLE_PLAYER"
	ModeMultiPlayer  GameMode = "MULTI_PLAYER"
	ModePractice     GameMode = "PRACTICE"
)

func (m GameMode) Valid() bool {
	switch m {
	case ModeSinglePlayer, ModeMultiPlayer, ModePractice:
		return true
	}
	return false
}

// Session is one quiz attempt. The running totals are denormalized from the
// answer rows and are always written as full recomputes, never increments.
type Session struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
	UserID          uint           `json:"user_id" gorm:"not null;index"`
	CategoryID      *uint          `json:"category_id"`
	Difficulty      Difficulty     `json:"difficulty" gorm:"not null"`
	QuestionsCount  int            `json:"questions_count" gorm:"not null"`
	Status          SessionStatus  `json:"status" gorm:"not null;default:ACTIVE;index"`
	IsPractice      bool           `json:"is_practice" gorm:"default:false"`
	GameMode        GameMode       `json:"game_mode" gorm:"not null"`
	ParentSessionID *uint          `json:"parent_session_id"`
	TotalScore      int            `json:"total_score" gorm:"default:0"`
	CorrectAnswers  int            `json:"correct_answers" gorm:"default:0"`
	WrongAnswers    int            `json:"wrong_answers" gorm:"default:0"`
	StartedAt       time.Time      `json:"started_at"`
	EndedAt         *time.Time     `json:"ended_at"`
	TimeSpent       *int           `json:"time_spent"`
}

// SessionQuestion binds a sampled question to a session at a fixed 1-based
// position. Rows are created once at start and never mutated.
type SessionQuestion struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	SessionID     uint      `json:"session_id" gorm:"not null;uniqueIndex:idx_session_question;uniqueIndex:idx_session_order"`
	QuestionID    uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_session_question"`
	QuestionOrder int       `json:"question_order" gorm:"not null;uniqueIndex:idx_session_order"`
}

// Answer is the ledger row for one response. The unique index on
// (session_id, question_id) is the storage-level guarantee that a question
// is scored at most once per session.
type Answer struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	SessionID        uint      `json:"session_id" gorm:"not null;uniqueIndex:idx_answer_session_question"`
	QuestionID       uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_session_question"`
	SelectedOptionID int       `json:"selected_option_id"` // -1 marks a client-side timeout
	IsCorrect        bool      `json:"is_correct"`
	TimeTaken        int       `json:"time_taken"`
	PointsEarned     int       `json:"points_earned"`
	AnsweredAt       time.Time `json:"answered_at" gorm:"autoCreateTime"`
}
