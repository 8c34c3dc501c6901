// Package api exposes the assistant over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/botkyrka/assist"
	"github.com/botkyrka/assist/db"
	"github.com/botkyrka/assist/language"
	"github.com/botkyrka/assist/logger"
	"github.com/botkyrka/assist/metrics"
	"github.com/botkyrka/assist/models"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 64 << 10

// recordTimeout bounds one analytics write
const recordTimeout = 5 * time.Second

// Answerer resolves user queries
type Answerer interface {
	Answer(ctx context.Context, q models.UserQuery) models.Answer
}

// Config contains server configuration
type Config struct {
	Addr         string
	CORSEnabled  bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		CORSEnabled:  true,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server represents the API server
type Server struct {
	assistant   Answerer
	store       db.Store
	logger      *zap.Logger
	router      chi.Router
	server      *http.Server
	corsEnabled bool
	records     sync.WaitGroup
}

// NewServer creates a new API server. store receives analytics records; use
// db.NewLogStore when no database is configured.
func NewServer(config Config, assistant Answerer, store db.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		assistant:   assistant,
		store:       store,
		logger:      log,
		router:      chi.NewRouter(),
		corsEnabled: config.CORSEnabled,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      otelhttp.NewHandler(s.router, "assist-api"),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	s.router.Use(s.recoverer)
	s.router.Use(s.requestID)
	s.router.Use(s.cors)
	s.router.Use(metrics.Middleware())

	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/chat", s.handleGreeting)
		r.Post("/feedback", s.handleFeedback)
		r.Post("/fallback", s.handleFallback)
	})
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server
func (s *Server) Start() error {
	s.logger.Info("starting API server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for pending analytics writes
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		s.records.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.store.Close()
}

// recoverer returns JSON instead of a plain text stacktrace
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				logger.FromContext(r.Context(), s.logger).Error("panic recovered",
					zap.Any("panic", rvr),
					zap.Stack("stacktrace"),
				)
				respondError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestID tags each request with an id, a request-scoped logger and one
// access log line
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		reqLogger := s.logger.With(zap.String("request_id", id))
		ctx := logger.WithContext(r.Context(), reqLogger)

		sw := &metrics.StatusWriter{ResponseWriter: w, Status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(ctx))

		// skip health checks and scrapes to reduce noise
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			return
		}
		reqLogger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.Status),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", r.UserAgent()),
		)
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.corsEnabled {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now(),
	})
}

// ChatMessage is one entry of the widget's message list
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a chat request. Either Message (with History) or
// Messages is set; with Messages the last user entry is the question.
type ChatRequest struct {
	Message  string        `json:"message"`
	History  []models.Turn `json:"history"`
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse represents a chat response
type ChatResponse struct {
	Content  string          `json:"content"`
	Language string          `json:"language"`
	Role     string          `json:"role"`
	Metadata models.Metadata `json:"metadata"`
}

// query turns the request into a UserQuery
func (req ChatRequest) query() models.UserQuery {
	if strings.TrimSpace(req.Message) != "" || len(req.Messages) == 0 {
		return models.UserQuery{Text: req.Message, History: req.History}
	}

	last := -1
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == string(models.RoleUser) {
			last = i
			break
		}
	}
	if last < 0 {
		return models.UserQuery{}
	}

	history := make([]models.Turn, 0, last)
	for _, m := range req.Messages[:last] {
		role := models.RoleUser
		if m.Role == string(models.RoleAssistant) {
			role = models.RoleAssistant
		}
		history = append(history, models.Turn{Role: role, Text: m.Content})
	}
	return models.UserQuery{Text: req.Messages[last].Content, History: history}
}

// handleChat answers one question
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q := req.query()
	if err := assist.Validate(q); err != nil {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	q.Text = strings.TrimSpace(q.Text)

	answer := s.assistant.Answer(r.Context(), q)

	m := answer.Metadata
	s.record(r, func(ctx context.Context) error {
		return s.store.SaveQuestion(ctx, db.Question{
			ID:           m.QuestionID,
			Text:         q.Text,
			Language:     answer.Language,
			Category:     m.IntentCategory,
			QueryType:    string(m.QueryType),
			UsedScraping: m.UsedScraping,
			AIUsed:       m.AIUsed,
		})
	})

	respondJSON(w, http.StatusOK, ChatResponse{
		Content:  answer.Text,
		Language: answer.Language,
		Role:     string(models.RoleAssistant),
		Metadata: answer.Metadata,
	})
}

// GreetingResponse is the opening message of the chat widget
type GreetingResponse struct {
	Content            string              `json:"content"`
	Language           string              `json:"language"`
	Role               string              `json:"role"`
	SupportedLanguages []language.Language `json:"supportedLanguages"`
}

// handleGreeting returns the greeting in the requested language
func (s *Server) handleGreeting(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("lang")
	if _, ok := language.Lookup(code); !ok {
		code = language.Default
	}

	respondJSON(w, http.StatusOK, GreetingResponse{
		Content:            language.Greeting(code),
		Language:           code,
		Role:               string(models.RoleAssistant),
		SupportedLanguages: language.Supported(),
	})
}

// FeedbackRequest is a vote on one answer
type FeedbackRequest struct {
	QuestionID     string `json:"questionId"`
	IsHelpful      *bool  `json:"isHelpful"`
	Comment        string `json:"comment"`
	MessageContent string `json:"messageContent"`
	Language       string `json:"language"`
}

// handleFeedback stores a vote on an answer
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" || req.IsHelpful == nil {
		respondError(w, http.StatusBadRequest, "questionId and isHelpful are required")
		return
	}

	f := db.Feedback{
		QuestionID:     req.QuestionID,
		IsHelpful:      *req.IsHelpful,
		Comment:        req.Comment,
		MessageContent: req.MessageContent,
		Language:       req.Language,
	}
	s.record(r, func(ctx context.Context) error { return s.store.SaveFeedback(ctx, f) })

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": language.FeedbackThanks(req.Language),
	})
}

// FallbackRequest asks for a person to follow up on a question
type FallbackRequest struct {
	QuestionText string `json:"questionText"`
	UserLanguage string `json:"userLanguage"`
	Feedback     string `json:"feedback"`
}

// handleFallback stores a follow-up request and returns its reference id
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	var req FallbackRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.QuestionText) == "" || req.UserLanguage == "" {
		respondError(w, http.StatusBadRequest, "questionText and userLanguage are required")
		return
	}

	ref := referenceID()
	f := db.Fallback{
		ID:           ref,
		QuestionText: req.QuestionText,
		UserLanguage: req.UserLanguage,
		Feedback:     req.Feedback,
	}
	s.record(r, func(ctx context.Context) error { return s.store.SaveFallback(ctx, f) })

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      language.FallbackConfirmation(req.UserLanguage),
		"reference_id": ref,
	})
}

// referenceID is the id a resident quotes when contacting the municipality
func referenceID() string {
	return "BOT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// record writes an analytics record without holding up the response.
// Failures are logged only.
func (s *Server) record(r *http.Request, write func(ctx context.Context) error) {
	log := logger.FromContext(r.Context(), s.logger)
	ctx := context.WithoutCancel(r.Context())

	s.records.Add(1)
	go func() {
		defer s.records.Done()
		ctx, cancel := context.WithTimeout(ctx, recordTimeout)
		defer cancel()
		if err := write(ctx); err != nil {
			log.Warn("failed to store analytics record", zap.Error(err))
		}
	}()
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
