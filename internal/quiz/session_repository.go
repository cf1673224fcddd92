package quiz

import (
	"log"
	"time"

	"trivia-arena/internal/models"

	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateWithQuestions persists the session and its ordered question bindings
// in one transaction, so an inventory or write failure leaves no orphan rows.
func (r *SessionRepository) CreateWithQuestions(session *models.Session, questionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			log.Printf("Error creating session: %v", err)
			return err
		}
		for i, questionID := range questionIDs {
			sq := models.SessionQuestion{
				SessionID:     session.ID,
				QuestionID:    questionID,
				QuestionOrder: i + 1,
			}
			if err := tx.Create(&sq).Error; err != nil {
				log.Printf("Error binding question %d to session %d: %v", questionID, session.ID, err)
				return err
			}
		}
		return nil
	})
}

func (r *SessionRepository) FindByID(id uint) (*models.Session, error) {
	var session models.Session
	err := r.db.First(&session, id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) FindActiveByUser(userID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.Where("user_id = ? AND status = ?", userID, models.SessionActive).
		Order("started_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// GetQuestions returns the session's question bindings in play order.
func (r *SessionRepository) GetQuestions(sessionID uint) ([]models.SessionQuestion, error) {
	var questions []models.SessionQuestion
	err := r.db.Where("session_id = ?", sessionID).
		Order("question_order ASC").
		Find(&questions).Error
	return questions, err
}

// SetTotals overwrites the denormalized session counters with aggregates
// computed from the answer ledger. Totals are always SET, never incremented;
// that keeps correct + wrong <= questions_count even under retried or racing
// submissions. Practice sessions keep total_score pinned to zero.
func (r *SessionRepository) SetTotals(sessionID uint, totals AnswerTotals, includeScore bool) error {
	updates := map[string]interface{}{
		"correct_answers": totals.Correct,
		"wrong_answers":   totals.Wrong,
	}
	if includeScore {
		updates["total_score"] = totals.Score
	}
	return r.db.Model(&models.Session{}).Where("id = ?", sessionID).Updates(updates).Error
}

func (r *SessionRepository) Abandon(sessionID uint, endedAt time.Time) error {
	return r.db.Model(&models.Session{}).Where("id = ?", sessionID).Updates(map[string]interface{}{
		"status":   models.SessionAbandoned,
		"ended_at": endedAt,
	}).Error
}

func (r *SessionRepository) Complete(sessionID uint, endedAt time.Time, timeSpent int) error {
	return r.db.Model(&models.Session{}).Where("id = ?", sessionID).Updates(map[string]interface{}{
		"status":     models.SessionCompleted,
		"ended_at":   endedAt,
		"time_spent": timeSpent,
	}).Error
}
