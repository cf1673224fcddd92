package quiz

import (
	"errors"

	"trivia-arena/internal/models"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// AnswerTotals are session aggregates derived from the ledger.
type AnswerTotals struct {
	Correct int
	Wrong   int
	Score   int
}

// Create inserts the ledger row. A second insert for the same
// (session, question) pair is rejected by the unique index and surfaces as
// gorm.ErrDuplicatedKey; this is the storage-level at-most-once backstop
// behind the application's existence check.
func (r *AnswerRepository) Create(answer *models.Answer) error {
	return r.db.Create(answer).Error
}

// FindBySessionAndQuestion returns (nil, nil) when no answer exists yet.
func (r *AnswerRepository) FindBySessionAndQuestion(sessionID, questionID uint) (*models.Answer, error) {
	var answer models.Answer
	err := r.db.Where("session_id = ? AND question_id = ?", sessionID, questionID).First(&answer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &answer, nil
}

func (r *AnswerRepository) CountBySession(sessionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Answer{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count, err
}

func (r *AnswerRepository) ListBySession(sessionID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.Where("session_id = ?", sessionID).
		Order("answered_at ASC").
		Find(&answers).Error
	return answers, err
}

// Totals aggregates the ledger in the database rather than trusting any
// counter kept elsewhere. The CASE expressions hold for both postgres and
// sqlite.
func (r *AnswerRepository) Totals(sessionID uint) (AnswerTotals, error) {
	var totals AnswerTotals
	err := r.db.Model(&models.Answer{}).
		Select(
			"COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct, " +
				"COALESCE(SUM(CASE WHEN is_correct THEN 0 ELSE 1 END), 0) AS wrong, " +
				"COALESCE(SUM(points_earned), 0) AS score").
		Where("session_id = ?", sessionID).
		Scan(&totals).Error
	return totals, err
}
