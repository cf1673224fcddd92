package quiz

import (
	"fmt"
	"strings"
	"testing"

	"trivia-arena/internal/models"
	"trivia-arena/internal/progression"
	"trivia-arena/internal/question"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory sqlite database with the same schema
// and error translation the postgres setup uses, so the unique indexes are
// enforced for real.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Question{},
		&models.QuestionOption{},
		&models.Session{},
		&models.SessionQuestion{},
		&models.Answer{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	questions := question.NewService(question.NewRepository(db))
	return NewService(
		NewSessionRepository(db),
		NewAnswerRepository(db),
		questions,
		progression.NewService(db),
	)
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Level:    1,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// seedQuestions inserts count questions of the given difficulty into a fresh
// category. Each question has four options; the first one is correct.
func seedQuestions(t *testing.T, db *gorm.DB, difficulty models.Difficulty, count int) *models.Category {
	t.Helper()

	category := &models.Category{Name: fmt.Sprintf("%s-%s", t.Name(), difficulty)}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	for i := 0; i < count; i++ {
		q := &models.Question{
			CategoryID:  category.ID,
			Difficulty:  difficulty,
			Text:        fmt.Sprintf("question %d", i+1),
			Explanation: "because",
			Points:      10,
		}
		for j := 0; j < 4; j++ {
			q.Options = append(q.Options, models.QuestionOption{
				Text:        fmt.Sprintf("option %d", j+1),
				OptionOrder: j + 1,
				IsCorrect:   j == 0,
			})
		}
		if err := db.Create(q).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
	}
	return category
}

// correctOptionID looks the grading data up directly; tests must never rely
// on the public projection for it.
func correctOptionID(t *testing.T, db *gorm.DB, questionID uint) uint {
	t.Helper()
	var option models.QuestionOption
	err := db.Where("question_id = ? AND is_correct = ?", questionID, true).First(&option).Error
	if err != nil {
		t.Fatalf("correct option for question %d: %v", questionID, err)
	}
	return option.ID
}

func reloadSession(t *testing.T, db *gorm.DB, id uint) *models.Session {
	t.Helper()
	var session models.Session
	if err := db.First(&session, id).Error; err != nil {
		t.Fatalf("reload session %d: %v", id, err)
	}
	return &session
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return &user
}

// answerCurrent fetches the current question and submits an answer for it,
// correct or not, with the given elapsed time.
func answerCurrent(t *testing.T, db *gorm.DB, svc *Service, sessionID, userID uint, correct bool, timeTaken int) *AnswerResult {
	t.Helper()

	current, err := svc.GetCurrentQuestion(sessionID, userID)
	if err != nil {
		t.Fatalf("get current question: %v", err)
	}
	if current == nil {
		t.Fatalf("no current question left in session %d", sessionID)
	}

	selected := TimeoutOptionID
	if correct {
		selected = int(correctOptionID(t, db, current.QuestionID))
	} else {
		// Pick a real but wrong option.
		for _, opt := range current.Options {
			if opt.ID != correctOptionID(t, db, current.QuestionID) {
				selected = int(opt.ID)
				break
			}
		}
	}

	result, err := svc.SubmitAnswer(sessionID, userID, SubmitAnswerInput{
		QuestionID:       current.QuestionID,
		SelectedOptionID: selected,
		TimeTaken:        timeTaken,
	})
	if err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	return result
}
