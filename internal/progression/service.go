// Package progression applies earned XP and lifetime score to users. Both
// writes are additive column updates in the database, not read-modify-write,
// so concurrent sessions for the same user cannot lose updates.
package progression

import (
	"log"

	"trivia-arena/internal/models"
	"trivia-arena/internal/scoring"

	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AddXP atomically adds xp and re-derives the level from the post-increment
// total inside one transaction.
func (s *Service) AddXP(userID uint, amount int) error {
	if amount <= 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("xp", gorm.Expr("xp + ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var user models.User
		if err := tx.Select("id", "xp", "level").First(&user, userID).Error; err != nil {
			return err
		}
		level := scoring.LevelForXP(user.XP)
		if level != user.Level {
			log.Printf("User %d reached level %d", userID, level)
			return tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("level", level).Error
		}
		return nil
	})
}

// AddScore atomically adds points to the user's lifetime score.
func (s *Service) AddScore(userID uint, points int) error {
	if points <= 0 {
		return nil
	}
	result := s.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("total_score", gorm.Expr("total_score + ?", points))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Snapshot is the progression view rendered on profile pages.
type Snapshot struct {
	XP               int `json:"xp"`
	Level            int `json:"level"`
	TotalScore       int `json:"totalScore"`
	XPForNextLevel   int `json:"xpForNextLevel"`
	XPIntoLevel      int `json:"xpIntoLevel"`
	XPToNextLevelGap int `json:"xpToNextLevel"`
}

// SnapshotFor derives the display fields from a user row.
func SnapshotFor(user *models.User) Snapshot {
	next := scoring.XPThresholdForLevel(user.Level + 1)
	current := scoring.XPThresholdForLevel(user.Level)
	return Snapshot{
		XP:               user.XP,
		Level:            user.Level,
		TotalScore:       user.TotalScore,
		XPForNextLevel:   next,
		XPIntoLevel:      user.XP - current,
		XPToNextLevelGap: next - user.XP,
	}
}
