package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/weichenhsu/tutorchat/internal/config"
	"github.com/weichenhsu/tutorchat/internal/models"
)

const messagesCollection = "messages"

// Store wraps the MongoDB client and exposes the history adapter used
// by the chat orchestrator. Turns are append-only; nothing here updates
// or deletes existing records.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
	messages *mongo.Collection
}

func New(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo: uri is required")
	}

	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutOrDefault(cfg.ConnectTimeout))
	defer cancel()

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	db := client.Database(cfg.Database)

	return &Store{
		client:   client,
		database: db,
		messages: db.Collection(messagesCollection),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the compound index backing the descending
// recency query in LoadRecent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo: ensure message index: %w", err)
	}

	return nil
}

// LoadRecent fetches up to limit most-recent turns for a conversation
// and returns them oldest-first. The store is queried newest-first so a
// single limit query suffices; the reversal back to chronological order
// happens here, not in the caller.
func (s *Store) LoadRecent(ctx context.Context, conversationID string, limit int) ([]models.Turn, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.messages.Find(ctx, bson.M{"conversation_id": conversationID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo: query messages: %w", err)
	}
	defer cursor.Close(ctx)

	var turns []models.Turn
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, fmt.Errorf("mongo: decode messages: %w", err)
	}

	return normalizeRecent(turns), nil
}

// Append writes one turn with a server-assigned timestamp.
func (s *Store) Append(ctx context.Context, conversationID, role, content string) error {
	_, err := s.messages.InsertOne(ctx, models.Turn{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("mongo: insert message: %w", err)
	}

	return nil
}

// normalizeRecent drops partially-written records (missing role or
// content) and reverses the descending query result into chronological
// order.
func normalizeRecent(turns []models.Turn) []models.Turn {
	result := make([]models.Turn, 0, len(turns))
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == "" || turns[i].Content == "" {
			continue
		}
		result = append(result, turns[i])
	}
	return result
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return 10 * time.Second
}
