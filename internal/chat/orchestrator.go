// Package chat orchestrates one conversation turn: load bounded
// history, call the completion API, persist the exchange.
package chat

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/weichenhsu/tutorchat/internal/llm"
	"github.com/weichenhsu/tutorchat/internal/models"
)

// MaxHistory bounds how many prior turns are replayed to the model.
const MaxHistory = 10

// DefaultConversationID groups turns from callers that supply no
// identifier of their own.
const DefaultConversationID = "default"

// ErrEmptyMessage is returned before any adapter is touched when the
// trimmed user message is empty.
var ErrEmptyMessage = errors.New("message is required")

// HistoryStore loads and appends conversation turns.
type HistoryStore interface {
	LoadRecent(ctx context.Context, conversationID string, limit int) ([]models.Turn, error)
	Append(ctx context.Context, conversationID, role, content string) error
}

// Completer produces an assistant reply for an ordered message list.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// Service composes the history store and the completion client. The
// store may be nil when persistence is unavailable; the chat path stays
// up and history degrades to empty.
type Service struct {
	store        HistoryStore
	completer    Completer
	systemPrompt string
	logger       *zap.SugaredLogger
}

func NewService(store HistoryStore, completer Completer, systemPrompt string, logger *zap.SugaredLogger) *Service {
	return &Service{
		store:        store,
		completer:    completer,
		systemPrompt: systemPrompt,
		logger:       logger,
	}
}

// Handle runs one conversation turn and returns the assistant reply.
//
// The prompt sent to the model is always one system turn, at most
// MaxHistory prior turns in chronological order, then the new user
// turn. A completion failure aborts before anything is written; a
// persistence failure after a successful completion is logged and
// swallowed so the caller still gets the reply.
func (s *Service) Handle(ctx context.Context, conversationID, message string) (string, error) {
	userInput := strings.TrimSpace(message)
	if userInput == "" {
		return "", ErrEmptyMessage
	}

	if strings.TrimSpace(conversationID) == "" {
		conversationID = DefaultConversationID
	}

	history := s.loadHistory(ctx, conversationID)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: models.RoleSystem, Content: s.systemPrompt})
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: models.RoleUser, Content: userInput})

	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", err
	}

	s.persist(ctx, conversationID, userInput, reply)

	return reply, nil
}

func (s *Service) loadHistory(ctx context.Context, conversationID string) []models.Turn {
	if s.store == nil {
		return nil
	}

	history, err := s.store.LoadRecent(ctx, conversationID, MaxHistory)
	if err != nil {
		s.logger.Warnw("load history failed; continuing with empty history",
			"conversation_id", conversationID, "error", err)
		return nil
	}

	return history
}

// persist appends the user turn then the assistant turn. If the user
// turn cannot be written the assistant turn is skipped so the store
// never holds a reply without its question.
func (s *Service) persist(ctx context.Context, conversationID, userInput, reply string) {
	if s.store == nil {
		s.logger.Warnw("history store unavailable; conversation turn not persisted",
			"conversation_id", conversationID)
		return
	}

	if err := s.store.Append(ctx, conversationID, models.RoleUser, userInput); err != nil {
		s.logger.Errorw("persist user turn failed",
			"conversation_id", conversationID, "error", err)
		return
	}

	if err := s.store.Append(ctx, conversationID, models.RoleAssistant, reply); err != nil {
		s.logger.Errorw("persist assistant turn failed",
			"conversation_id", conversationID, "error", err)
	}
}
