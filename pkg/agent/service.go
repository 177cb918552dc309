package agent

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/adhocore/gronx"
	"github.com/google/uuid"

	"github.com/mindwellhq/mindwell/pkg/extract"
	"github.com/mindwellhq/mindwell/pkg/profile"
	"github.com/mindwellhq/mindwell/pkg/responder"
)

// apologyReply is the safe reply returned when the chat path itself fails.
const apologyReply = "I'm here to support you, but I'm having some technical difficulties. Could you try rephrasing or asking something else?"

// ChatResult is the boundary payload for one chat turn.
type ChatResult struct {
	Reply          string
	ProfileUpdates map[string]string
}

// Health reports tier readiness. The fallback responder is always available.
type Health struct {
	Status            string `json:"status"`
	Model             string `json:"model"`
	VectorStore       string `json:"vector_store"`
	FallbackAvailable bool   `json:"fallback_available"`
}

// Service exposes the boundary operations consumed by the HTTP layer and the
// CLI. Every operation has a guaranteed-safe return value; no internal error
// escapes the chat path.
type Service struct {
	store     *profile.Store
	generator *Generator
	logger    *slog.Logger

	followUpCron string
}

// NewService wires the pipeline. followUpCron schedules the next check-in
// stamp after each turn; empty or invalid expressions disable it.
func NewService(store *profile.Store, generator *Generator, followUpCron string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if followUpCron != "" && !gronx.New().IsValid(followUpCron) {
		logger.Warn("invalid follow-up cron expression, follow-up scheduling disabled", "cron", followUpCron)
		followUpCron = ""
	}
	return &Service{
		store:        store,
		generator:    generator,
		logger:       logger,
		followUpCron: followUpCron,
	}
}

// HandleChat runs the full pipeline for one message. Always succeeds from
// the caller's point of view: any internal failure yields the apology reply
// with empty updates.
func (s *Service) HandleChat(ctx context.Context, message string, history []HistoryMessage) (result ChatResult) {
	requestID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("chat pipeline panic", "request_id", requestID, "panic", r)
			result = ChatResult{Reply: apologyReply, ProfileUpdates: map[string]string{}}
		}
	}()

	s.logger.Info("handling chat message", "request_id", requestID, "preview", preview(message))

	updates := extract.Extract(message)
	reply := s.generator.Generate(ctx, message, history)

	s.persistTurn(message, reply, updates, requestID)
	s.recordConcern(message)

	return ChatResult{Reply: reply, ProfileUpdates: updates}
}

// persistTurn merges extracted fields, the conversation turn, and the
// check-in stamps into the profile. Persistence failures are logged, never
// surfaced on the chat path.
func (s *Service) persistTurn(message, reply string, updates map[string]string, requestID string) {
	now := time.Now()

	patch := profile.PatchFromFields(updates)
	patch.Message = &message
	patch.Response = &reply

	lastCheckIn := now.Format(time.RFC3339)
	patch.LastCheckIn = &lastCheckIn
	if s.followUpCron != "" {
		if next, err := gronx.NextTickAfter(s.followUpCron, now, false); err == nil {
			followUp := next.Format(time.RFC3339)
			patch.NextFollowUp = &followUp
		}
	}

	if _, err := s.store.Update(patch); err != nil {
		s.logger.Error("failed to persist chat turn", "request_id", requestID, "error", err)
	}
}

// recordConcern tags the profile when the message classifies as a
// mental-health signal, regardless of which tier produced the reply.
func (s *Service) recordConcern(message string) {
	if tag := responder.ConcernTag(responder.Classify(message)); tag != "" {
		s.store.RecordConcern(tag)
	}
}

// GetProfile returns a snapshot, synthesizing the default profile if none
// exists yet.
func (s *Service) GetProfile() profile.Profile {
	return s.store.Get()
}

// UpdateProfile applies a partial update and persists. Unlike chat, explicit
// profile updates do surface persistence errors to the caller.
func (s *Service) UpdateProfile(patch profile.Patch) (profile.Profile, error) {
	return s.store.Update(patch)
}

// GetResources returns the categorized link lists, seeded on first use.
func (s *Service) GetResources() profile.Resources {
	return s.store.Resources()
}

// HealthStatus reports tier readiness.
func (s *Service) HealthStatus() Health {
	model := "not loaded"
	if s.generator.ModelLoaded() {
		model = "loaded"
	}
	vectorStore := "not initialized"
	if s.generator.RetrieverReady() {
		vectorStore = "initialized"
	}
	return Health{
		Status:            "healthy",
		Model:             model,
		VectorStore:       vectorStore,
		FallbackAvailable: true,
	}
}

func preview(message string) string {
	const limit = 30
	if len(message) <= limit {
		return message
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(message[cut]) {
		cut--
	}
	return message[:cut] + "..."
}
