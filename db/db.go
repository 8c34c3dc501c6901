// Package db stores analytics records: asked questions, answer feedback and
// requests to be contacted by a person. It never stores conversation state.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// Question is one answered chat message
type Question struct {
	ID           string
	Text         string
	Language     string
	Category     string
	QueryType    string
	UsedScraping bool
	AIUsed       bool
	CreatedAt    time.Time
}

// Feedback is a helpful/not helpful vote on an answer
type Feedback struct {
	QuestionID     string
	IsHelpful      bool
	Comment        string
	MessageContent string
	Language       string
	CreatedAt      time.Time
}

// Fallback is a request to have a person follow up on a question
type Fallback struct {
	ID           string
	QuestionText string
	UserLanguage string
	Feedback     string
	CreatedAt    time.Time
}

// Store receives analytics records
type Store interface {
	SaveQuestion(ctx context.Context, q Question) error
	SaveFeedback(ctx context.Context, f Feedback) error
	SaveFallback(ctx context.Context, f Fallback) error
	Close() error
}

// DB is the PostgreSQL Store
type DB struct {
	conn *sql.DB
}

// Config contains database configuration
type Config struct {
	DSN string // PostgreSQL connection string
}

// New opens the database, checks the connection and runs pending migrations
func New(ctx context.Context, config Config) (*DB, error) {
	conn, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{conn: conn}, nil
}

// NewWithConn wraps an already migrated connection
func NewWithConn(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveQuestion records an answered question
func (db *DB) SaveQuestion(ctx context.Context, q Question) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO assist_questions (id, text, language, category, query_type, used_scraping, ai_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, q.ID, q.Text, q.Language, q.Category, q.QueryType, q.UsedScraping, q.AIUsed, orNow(q.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save question %s: %w", q.ID, err)
	}
	return nil
}

// SaveFeedback records a vote on an answer
func (db *DB) SaveFeedback(ctx context.Context, f Feedback) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO assist_feedback (question_id, is_helpful, comment, message_content, language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, f.QuestionID, f.IsHelpful, f.Comment, f.MessageContent, f.Language, orNow(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save feedback for %s: %w", f.QuestionID, err)
	}
	return nil
}

// SaveFallback records a follow-up request
func (db *DB) SaveFallback(ctx context.Context, f Fallback) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO assist_fallback_requests (id, question_text, user_language, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, f.ID, f.QuestionText, f.UserLanguage, f.Feedback, orNow(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save fallback request %s: %w", f.ID, err)
	}
	return nil
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

// LogStore is the Store used when no database is configured. Records are
// only logged.
type LogStore struct {
	logger *zap.Logger
}

// NewLogStore creates a logging Store
func NewLogStore(logger *zap.Logger) *LogStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogStore{logger: logger}
}

func (s *LogStore) SaveQuestion(_ context.Context, q Question) error {
	s.logger.Info("question",
		zap.String("question_id", q.ID),
		zap.String("language", q.Language),
		zap.String("category", q.Category),
		zap.String("query_type", q.QueryType),
		zap.Bool("used_scraping", q.UsedScraping),
		zap.Bool("ai_used", q.AIUsed),
	)
	return nil
}

func (s *LogStore) SaveFeedback(_ context.Context, f Feedback) error {
	s.logger.Info("feedback",
		zap.String("question_id", f.QuestionID),
		zap.Bool("is_helpful", f.IsHelpful),
		zap.String("language", f.Language),
		zap.Int("comment_chars", len(f.Comment)),
	)
	return nil
}

func (s *LogStore) SaveFallback(_ context.Context, f Fallback) error {
	s.logger.Info("fallback request",
		zap.String("reference_id", f.ID),
		zap.String("language", f.UserLanguage),
	)
	return nil
}

func (s *LogStore) Close() error { return nil }
