package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mindwellhq/mindwell/pkg/knowledge"
	"github.com/mindwellhq/mindwell/pkg/profile"
	"github.com/mindwellhq/mindwell/pkg/providers"
	"github.com/mindwellhq/mindwell/pkg/responder"
)

// Retriever is the knowledge search contract consumed by the generator.
// Failures are expected (cold or absent index) and never fatal.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]knowledge.Snippet, error)
}

// ModelResult is the explicit two-variant outcome of the model tier: either
// generated text or an unavailability reason. The generator pattern-matches
// on this instead of relying on catch-all control flow, so the silent
// fallback stays structurally visible and testable.
type ModelResult struct {
	Text        string
	Unavailable bool
	Reason      string
}

func generated(text string) ModelResult     { return ModelResult{Text: text} }
func unavailable(reason string) ModelResult { return ModelResult{Unavailable: true, Reason: reason} }

// Generator is the tiered response generator: model tier first when loaded,
// rule-based fallback otherwise. Demotion is per-request and silent; every
// request independently attempts the model tier again.
type Generator struct {
	provider  providers.ChatProvider
	retriever Retriever
	store     *profile.Store
	sampling  providers.SamplingOptions
	topK      int
	logger    *slog.Logger
}

func NewGenerator(provider providers.ChatProvider, retriever Retriever, store *profile.Store, sampling providers.SamplingOptions, topK int, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if topK <= 0 {
		topK = 2
	}
	return &Generator{
		provider:  provider,
		retriever: retriever,
		store:     store,
		sampling:  sampling,
		topK:      topK,
		logger:    logger,
	}
}

// ModelLoaded reports whether the model tier was available at startup.
func (g *Generator) ModelLoaded() bool { return g.provider != nil }

// RetrieverReady reports whether a knowledge retriever is wired in.
func (g *Generator) RetrieverReady() bool { return g.retriever != nil }

// Generate produces a reply for message. It never fails: any model-tier
// problem demotes this request to the fallback tier.
func (g *Generator) Generate(ctx context.Context, message string, history []HistoryMessage) string {
	result := g.modelTier(ctx, message, history)
	if result.Unavailable {
		g.logger.Info("model tier unavailable, using fallback responder", "reason", result.Reason)
		return responder.Respond(message, g.store.Get().Name)
	}
	return result.Text
}

func (g *Generator) modelTier(ctx context.Context, message string, history []HistoryMessage) ModelResult {
	if g.provider == nil {
		return unavailable("model not loaded")
	}

	snippets := g.retrieve(ctx, message)
	prof := g.store.Get()
	pc := AssemblePromptContext(message, prof, snippets, history)

	reply, err := g.provider.Chat(ctx, pc.Messages(), g.sampling)
	if err != nil {
		return unavailable(fmt.Sprintf("inference failed: %v", err))
	}

	cleaned := cleanModelReply(reply)
	if cleaned == "" {
		return unavailable("empty completion")
	}
	return generated(cleaned)
}

// retrieve is best-effort: retrieval errors are logged and swallowed so
// generation proceeds without retrieved context. No retry.
func (g *Generator) retrieve(ctx context.Context, query string) []knowledge.Snippet {
	if g.retriever == nil {
		return nil
	}
	snippets, err := g.retriever.Search(ctx, query, g.topK)
	if err != nil {
		g.logger.Warn("knowledge retrieval failed", "error", err)
		return nil
	}
	return snippets
}

// cleanModelReply strips the role-label artifact some models echo at the
// start of the continuation.
func cleanModelReply(reply string) string {
	cleaned := strings.TrimSpace(reply)
	if rest, ok := strings.CutPrefix(cleaned, "Assistant:"); ok {
		cleaned = strings.TrimSpace(rest)
	}
	return cleaned
}
