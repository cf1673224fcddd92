package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound covers both a missing session and one owned by
	// another user; existence is never revealed to non-owners.
	ErrSessionNotFound = errors.New("session not found or access denied")
	// ErrSessionNotActive is returned when an operation needs an ACTIVE
	// session but the session is in another state.
	ErrSessionNotActive = errors.New("session is not active")
	// ErrAlreadyAnswered guards at-most-once scoring per (session, question).
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrQuestionNotInSession is returned when the submitted question was
	// never sampled into the session.
	ErrQuestionNotInSession = errors.New("question not found in this session")
	// ErrAllQuestionsAnswered defends the answered <= questions_count bound.
	ErrAllQuestionsAnswered = errors.New("all questions have already been answered")
	// ErrOpponentBusy rejects a multiplayer start against a user who is
	// mid-game.
	ErrOpponentBusy = errors.New("opponent is already in a game")
	// ErrSessionTerminal rejects abandoning a session that already ended in
	// an abandoned or timed-out state.
	ErrSessionTerminal = errors.New("session already ended")
	// ErrValidation marks malformed input, rejected before any mutation.
	ErrValidation = errors.New("validation failed")
)

// ActiveSessionError is the start() conflict. It carries the blocking
// session id so the client can offer resume-or-abandon.
type ActiveSessionError struct {
	SessionID uint
}

func (e *ActiveSessionError) Error() string {
	return fmt.Sprintf("user already has an active game (session %d)", e.SessionID)
}
