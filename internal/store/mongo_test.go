package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/weichenhsu/tutorchat/internal/config"
	"github.com/weichenhsu/tutorchat/internal/models"
)

func TestNormalizeRecentDropsMalformedAndReverses(t *testing.T) {
	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	// Descending order, as the query returns them.
	descending := []models.Turn{
		{Role: models.RoleAssistant, Content: "third", Timestamp: base.Add(2 * time.Minute)},
		{Role: "", Content: "no role", Timestamp: base.Add(90 * time.Second)},
		{Role: models.RoleUser, Content: "", Timestamp: base.Add(time.Minute)},
		{Role: models.RoleUser, Content: "first", Timestamp: base},
	}

	result := normalizeRecent(descending)

	if len(result) != 2 {
		t.Fatalf("expected 2 well-formed turns, got %d", len(result))
	}
	if result[0].Content != "first" || result[1].Content != "third" {
		t.Fatalf("expected chronological order [first third], got [%s %s]", result[0].Content, result[1].Content)
	}
	for i := 1; i < len(result); i++ {
		if result[i].Timestamp.Before(result[i-1].Timestamp) {
			t.Fatalf("timestamps not in non-decreasing order at %d", i)
		}
	}
}

func TestNormalizeRecentEmpty(t *testing.T) {
	if got := normalizeRecent(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d entries", len(got))
	}
}

func TestMongoRoundTrip(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping mongo integration test")
	}

	database := "tutorchat_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	cfg := config.MongoConfig{
		URI:            uri,
		Database:       database,
		ConnectTimeout: 5 * time.Second,
	}

	ctx := context.Background()

	store, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() {
		store.database.Drop(ctx)
		store.Close(ctx)
	}()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes failed: %v", err)
	}

	conversationID := uuid.NewString()

	if err := store.Append(ctx, conversationID, models.RoleUser, "hello"); err != nil {
		t.Fatalf("failed to append user turn: %v", err)
	}
	if err := store.Append(ctx, conversationID, models.RoleAssistant, "hi there"); err != nil {
		t.Fatalf("failed to append assistant turn: %v", err)
	}

	// A partially-written record must be filtered out on read.
	if _, err := store.messages.InsertOne(ctx, map[string]any{
		"conversation_id": conversationID,
		"timestamp":       time.Now().UTC(),
	}); err != nil {
		t.Fatalf("failed to insert malformed record: %v", err)
	}

	turns, err := store.LoadRecent(ctx, conversationID, 10)
	if err != nil {
		t.Fatalf("load recent failed: %v", err)
	}

	if len(turns) != 2 {
		t.Fatalf("expected 2 well-formed turns, got %d", len(turns))
	}
	if turns[0].Role != models.RoleUser || turns[0].Content != "hello" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Role != models.RoleAssistant || turns[1].Content != "hi there" {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}

	empty, err := store.LoadRecent(ctx, uuid.NewString(), 10)
	if err != nil {
		t.Fatalf("load recent for unknown conversation failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty history for unknown conversation, got %d", len(empty))
	}
}
