package quiz

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"time"

	"trivia-arena/internal/models"
	"trivia-arena/internal/scoring"

	"gorm.io/gorm"
)

const (
	// staleSessionAge is how long a session may sit ACTIVE before the next
	// start() conflict check sweeps it to ABANDONED.
	staleSessionAge = 24 * time.Hour
	// answerTimeLimit is the per-question countdown, in seconds, reported to
	// non-practice clients. The server does not enforce it; a client submits
	// the timeout sentinel after its local timer fires.
	answerTimeLimit = 30
	// TimeoutOptionID is the sentinel a client submits when its countdown
	// expires. It matches no real option and is always scored wrong.
	TimeoutOptionID = -1

	maxQuestionsPerSession = 50
	maxTimeTaken           = 120
)

// QuestionProvider is the question-bank contract the orchestrator consumes.
type QuestionProvider interface {
	SampleQuestions(categoryID *uint, difficulty models.Difficulty, count int) ([]models.Question, error)
	GetQuestion(id uint) (*models.Question, error)
}

// Progression applies earned XP and lifetime score to a user.
type Progression interface {
	AddXP(userID uint, amount int) error
	AddScore(userID uint, points int) error
}

// Shuffler permutes n elements; injectable so tests can seed it.
type Shuffler func(n int, swap func(i, j int))

type Service struct {
	sessions    *SessionRepository
	answers     *AnswerRepository
	questions   QuestionProvider
	progression Progression
	shuffle     Shuffler
}

func NewService(sessions *SessionRepository, answers *AnswerRepository, questions QuestionProvider, progression Progression) *Service {
	return &Service{
		sessions:    sessions,
		answers:     answers,
		questions:   questions,
		progression: progression,
		shuffle:     rand.Shuffle,
	}
}

// SetShuffler swaps the option shuffler; tests use a seeded source.
func (s *Service) SetShuffler(shuffle Shuffler) {
	s.shuffle = shuffle
}

type StartGameInput struct {
	CategoryID     *uint
	Difficulty     models.Difficulty
	QuestionsCount int
	GameMode       models.GameMode
	OpponentUserID *uint
}

type CurrentQuestion struct {
	QuestionID     uint                  `json:"questionId"`
	Text           string                `json:"text"`
	Options        []models.PublicOption `json:"options"`
	QuestionNumber int                   `json:"questionNumber"`
	TotalQuestions int                   `json:"totalQuestions"`
	TimeLimit      *int                  `json:"timeLimit"`
	IsPractice     bool                  `json:"isPractice"`
}

type SubmitAnswerInput struct {
	QuestionID       uint
	SelectedOptionID int
	TimeTaken        int
}

type AnswerResult struct {
	AnswerID        uint    `json:"answerId"`
	IsCorrect       bool    `json:"isCorrect"`
	CorrectOptionID uint    `json:"correctOptionId"`
	PointsEarned    int     `json:"pointsEarned"`
	Explanation     *string `json:"explanation"`
	IsPractice      bool    `json:"isPractice"`
}

type GameResult struct {
	SessionID      uint    `json:"sessionId"`
	UserID         uint    `json:"userId"`
	TotalScore     int     `json:"totalScore"`
	CorrectAnswers int     `json:"correctAnswers"`
	WrongAnswers   int     `json:"wrongAnswers"`
	Accuracy       float64 `json:"accuracy"`
	TimeSpent      int     `json:"timeSpent"`
	IsPractice     bool    `json:"isPractice"`
}

// StartGame creates a timed session over a fresh random question set.
// Non-practice starts are rejected while the user has another ACTIVE
// session, after sweeping sessions past the staleness window to ABANDONED.
func (s *Service) StartGame(userID uint, input StartGameInput) (*models.Session, error) {
	if input.QuestionsCount < 1 || input.QuestionsCount > maxQuestionsPerSession {
		return nil, fmt.Errorf("%w: questionsCount must be between 1 and %d", ErrValidation, maxQuestionsPerSession)
	}
	if !input.GameMode.Valid() {
		return nil, fmt.Errorf("%w: unknown game mode %q", ErrValidation, input.GameMode)
	}
	if !input.Difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrValidation, input.Difficulty)
	}

	if input.GameMode != models.ModePractice {
		if err := s.ensureNoActiveSession(userID); err != nil {
			return nil, err
		}
	}

	if input.GameMode == models.ModeMultiPlayer && input.OpponentUserID != nil {
		opponentActive, err := s.sessions.FindActiveByUser(*input.OpponentUserID)
		if err != nil {
			return nil, err
		}
		if len(opponentActive) > 0 {
			return nil, ErrOpponentBusy
		}
	}

	// Sample before persisting anything: an inventory shortfall must leave
	// no session or binding rows behind.
	questions, err := s.questions.SampleQuestions(input.CategoryID, input.Difficulty, input.QuestionsCount)
	if err != nil {
		return nil, err
	}
	questionIDs := make([]uint, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}

	session := &models.Session{
		UserID:         userID,
		CategoryID:     input.CategoryID,
		Difficulty:     input.Difficulty,
		QuestionsCount: input.QuestionsCount,
		Status:         models.SessionActive,
		IsPractice:     input.GameMode == models.ModePractice,
		GameMode:       input.GameMode,
		StartedAt:      time.Now(),
	}
	if err := s.sessions.CreateWithQuestions(session, questionIDs); err != nil {
		return nil, err
	}

	if input.GameMode == models.ModeMultiPlayer && input.OpponentUserID != nil {
		// The opponent gets an independently-scored session bound to the
		// same ordered question list; nothing else is shared.
		opponent := &models.Session{
			UserID:          *input.OpponentUserID,
			CategoryID:      input.CategoryID,
			Difficulty:      input.Difficulty,
			QuestionsCount:  input.QuestionsCount,
			Status:          models.SessionActive,
			GameMode:        input.GameMode,
			ParentSessionID: &session.ID,
			StartedAt:       time.Now(),
		}
		if err := s.sessions.CreateWithQuestions(opponent, questionIDs); err != nil {
			return nil, err
		}
		log.Printf("Created multiplayer pair: session %d vs session %d", session.ID, opponent.ID)
	}

	return session, nil
}

func (s *Service) ensureNoActiveSession(userID uint) error {
	active, err := s.sessions.FindActiveByUser(userID)
	if err != nil {
		return err
	}

	now := time.Now()
	var stillActive []models.Session
	for _, game := range active {
		if now.Sub(game.StartedAt) > staleSessionAge {
			if err := s.sessions.Abandon(game.ID, now); err != nil {
				return err
			}
			log.Printf("Auto-abandoned stale session %d for user %d", game.ID, userID)
			continue
		}
		stillActive = append(stillActive, game)
	}

	if len(stillActive) > 0 {
		return &ActiveSessionError{SessionID: stillActive[0].ID}
	}
	return nil
}

// GetActiveGame returns the user's current ACTIVE session, or nil.
func (s *Service) GetActiveGame(userID uint) (*models.Session, error) {
	active, err := s.sessions.FindActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	return &active[0], nil
}

// GetCurrentQuestion serves the next unanswered question. Position is
// derived from the answer count, never from a stored cursor, so it cannot
// drift from the ledger. Returns nil once every question is answered.
func (s *Service) GetCurrentQuestion(sessionID, userID uint) (*CurrentQuestion, error) {
	session, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, ErrSessionNotActive
	}

	answered, err := s.answers.CountBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if answered >= int64(session.QuestionsCount) {
		return nil, nil
	}

	bindings, err := s.sessions.GetQuestions(sessionID)
	if err != nil {
		return nil, err
	}
	if int(answered) >= len(bindings) {
		return nil, nil
	}

	question, err := s.questions.GetQuestion(bindings[answered].QuestionID)
	if err != nil {
		return nil, err
	}

	public := question.Public()
	s.shuffle(len(public.Options), func(i, j int) {
		public.Options[i], public.Options[j] = public.Options[j], public.Options[i]
	})

	var timeLimit *int
	if !session.IsPractice {
		limit := answerTimeLimit
		timeLimit = &limit
	}

	return &CurrentQuestion{
		QuestionID:     public.ID,
		Text:           public.Text,
		Options:        public.Options,
		QuestionNumber: int(answered) + 1,
		TotalQuestions: session.QuestionsCount,
		TimeLimit:      timeLimit,
		IsPractice:     session.IsPractice,
	}, nil
}

// SubmitAnswer validates, scores and records one answer. Each (session,
// question) pair is scored at most once: the existence check catches plain
// duplicates and the ledger's unique index catches racing ones.
func (s *Service) SubmitAnswer(sessionID, userID uint, input SubmitAnswerInput) (*AnswerResult, error) {
	if input.TimeTaken < 0 || input.TimeTaken > maxTimeTaken {
		return nil, fmt.Errorf("%w: timeTaken must be between 0 and %d seconds", ErrValidation, maxTimeTaken)
	}

	session, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, ErrSessionNotActive
	}

	existing, err := s.answers.FindBySessionAndQuestion(sessionID, input.QuestionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyAnswered
	}

	bindings, err := s.sessions.GetQuestions(sessionID)
	if err != nil {
		return nil, err
	}
	bound := false
	for _, binding := range bindings {
		if binding.QuestionID == input.QuestionID {
			bound = true
			break
		}
	}
	if !bound {
		return nil, ErrQuestionNotInSession
	}

	question, err := s.questions.GetQuestion(input.QuestionID)
	if err != nil {
		return nil, err
	}
	correct := question.CorrectOption()
	if correct == nil {
		return nil, fmt.Errorf("question %d has no correct option", question.ID)
	}

	// The timeout sentinel matches no real option id, so it always lands
	// on the wrong side of this comparison.
	isCorrect := input.SelectedOptionID == int(correct.ID)

	points := 0
	if isCorrect && !session.IsPractice {
		points = scoring.PointsForAnswer(question.Points, question.Difficulty, input.TimeTaken)
	}

	answered, err := s.answers.CountBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if answered >= int64(session.QuestionsCount) {
		return nil, ErrAllQuestionsAnswered
	}

	answer := &models.Answer{
		SessionID:        sessionID,
		QuestionID:       input.QuestionID,
		SelectedOptionID: input.SelectedOptionID,
		IsCorrect:        isCorrect,
		TimeTaken:        input.TimeTaken,
		PointsEarned:     points,
		AnsweredAt:       time.Now(),
	}
	if err := s.answers.Create(answer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyAnswered
		}
		return nil, err
	}

	// Recompute the denormalized counters from the ledger. Whatever set of
	// answers actually persisted, the visible totals agree with it.
	totals, err := s.answers.Totals(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SetTotals(sessionID, totals, !session.IsPractice); err != nil {
		return nil, err
	}

	if !session.IsPractice {
		if xp := scoring.XPForAnswer(question.Difficulty, isCorrect, input.TimeTaken); xp > 0 {
			if err := s.progression.AddXP(userID, xp); err != nil {
				return nil, err
			}
		}
	}

	var explanation *string
	if question.Explanation != "" {
		explanation = &question.Explanation
	}

	return &AnswerResult{
		AnswerID:        answer.ID,
		IsCorrect:       isCorrect,
		CorrectOptionID: correct.ID,
		PointsEarned:    points,
		Explanation:     explanation,
		IsPractice:      session.IsPractice,
	}, nil
}

// EndGame finalizes an ACTIVE session. Calling it again on a COMPLETED
// session returns the same figures, recomputed from the ledger, without a
// second lifetime-score application.
func (s *Service) EndGame(sessionID, userID uint) (*GameResult, error) {
	session, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	if session.Status == models.SessionCompleted {
		answers, err := s.answers.ListBySession(sessionID)
		if err != nil {
			return nil, err
		}
		stats := computeFinalStats(answers)
		timeSpent := 0
		if session.TimeSpent != nil {
			timeSpent = *session.TimeSpent
		} else {
			timeSpent = int(time.Since(session.StartedAt).Seconds())
		}
		return s.gameResult(session, stats, timeSpent), nil
	}

	if session.Status != models.SessionActive {
		return nil, fmt.Errorf("%w: cannot end session with status %s", ErrSessionNotActive, session.Status)
	}

	answers, err := s.answers.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}
	stats := computeFinalStats(answers)
	timeSpent := int(time.Since(session.StartedAt).Seconds())

	if !session.IsPractice {
		if err := s.progression.AddScore(userID, stats.totalScore); err != nil {
			return nil, err
		}
	}

	if err := s.sessions.Complete(sessionID, time.Now(), timeSpent); err != nil {
		return nil, err
	}

	return s.gameResult(session, stats, timeSpent), nil
}

// AbandonGame drops an ACTIVE session without scoring side effects. A
// COMPLETED session is a no-op success so clients can clear a finished game.
func (s *Service) AbandonGame(sessionID, userID uint) error {
	session, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return err
	}

	switch session.Status {
	case models.SessionAbandoned, models.SessionTimedOut:
		return fmt.Errorf("%w: session is already %s", ErrSessionTerminal, strings.ToLower(string(session.Status)))
	case models.SessionCompleted:
		return nil
	}

	return s.sessions.Abandon(sessionID, time.Now())
}

func (s *Service) ownedSession(sessionID, userID uint) (*models.Session, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) gameResult(session *models.Session, stats finalStats, timeSpent int) *GameResult {
	totalScore := stats.totalScore
	if session.IsPractice {
		totalScore = 0
	}
	return &GameResult{
		SessionID:      session.ID,
		UserID:         session.UserID,
		TotalScore:     totalScore,
		CorrectAnswers: stats.correctAnswers,
		WrongAnswers:   stats.wrongAnswers,
		Accuracy:       stats.accuracy,
		TimeSpent:      timeSpent,
		IsPractice:     session.IsPractice,
	}
}

type finalStats struct {
	totalScore     int
	correctAnswers int
	wrongAnswers   int
	accuracy       float64
}

func computeFinalStats(answers []models.Answer) finalStats {
	stats := finalStats{}
	for _, answer := range answers {
		stats.totalScore += answer.PointsEarned
		if answer.IsCorrect {
			stats.correctAnswers++
		} else {
			stats.wrongAnswers++
		}
	}
	total := stats.correctAnswers + stats.wrongAnswers
	if total > 0 {
		stats.accuracy = math.Round(float64(stats.correctAnswers)/float64(total)*100*100) / 100
	}
	return stats
}
