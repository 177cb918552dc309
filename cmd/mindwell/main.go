package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mindwellhq/mindwell/pkg/agent"
	"github.com/mindwellhq/mindwell/pkg/config"
	"github.com/mindwellhq/mindwell/pkg/knowledge"
	"github.com/mindwellhq/mindwell/pkg/logging"
	"github.com/mindwellhq/mindwell/pkg/profile"
	"github.com/mindwellhq/mindwell/pkg/providers"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := executeCLI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mindwell.json"
	}
	return filepath.Join(home, ".mindwell", "config.json")
}

func loadRuntime(cfgPath string) (*config.Config, *slog.Logger, func() error, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, cleanup := logging.Setup(cfg.LogPath(), logging.ParseLevel(cfg.Log.Level))
	return cfg, logger, cleanup, nil
}

// buildService assembles the full pipeline. Infrastructure that fails to
// come up (model endpoint, knowledge index) is logged and left absent; the
// service still works through the fallback tier.
func buildService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*agent.Service, func(), error) {
	store, err := profile.NewStore(cfg.ProfilePath(), cfg.ResourcesPath(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open profile store: %w", err)
	}

	var retriever agent.Retriever
	index, err := openIndex(ctx, cfg, logger)
	if err != nil {
		logger.Error("knowledge index unavailable, continuing without retrieval", "error", err)
	} else {
		retriever = index
	}

	var provider providers.ChatProvider
	if cfg.ModelEnabled() {
		client, err := providers.NewClient(cfg.Model.APIBase, cfg.Model.APIKey, cfg.Model.Name)
		if err != nil {
			logger.Error("model client misconfigured, will use fallback responder", "error", err)
		} else {
			probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := client.Probe(probeCtx)
			cancel()
			if err != nil {
				logger.Warn("model endpoint probe failed, will use fallback responder", "error", err)
			} else {
				provider = client
				logger.Info("model tier ready", "api_base", cfg.Model.APIBase, "model", cfg.Model.Name)
			}
		}
	} else {
		logger.Info("model tier not configured, will use fallback responder")
	}

	sampling := providers.SamplingOptions{
		MaxNewTokens: cfg.Model.MaxNewTokens,
		Temperature:  cfg.Model.Temperature,
		TopP:         cfg.Model.TopP,
	}
	generator := agent.NewGenerator(provider, retriever, store, sampling, cfg.Knowledge.TopK, logger)

	followUpCron := ""
	if cfg.FollowUp.Enabled {
		followUpCron = cfg.FollowUp.Cron
	}
	service := agent.NewService(store, generator, followUpCron, logger)

	closeAll := func() {
		if index != nil {
			_ = index.Close()
		}
	}
	return service, closeAll, nil
}

// openIndex opens the knowledge index and populates it on first use,
// seeding the reference corpus when the knowledge directory is empty.
func openIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*knowledge.Index, error) {
	index, err := knowledge.OpenIndex(cfg.IndexPath())
	if err != nil {
		return nil, err
	}

	count, err := index.ChunkCount(ctx)
	if err != nil {
		_ = index.Close()
		return nil, err
	}
	if count > 0 {
		logger.Info("knowledge index loaded", "chunks", count)
		return index, nil
	}

	seeded, err := knowledge.EnsureSeedCorpus(cfg.KnowledgeDir())
	if err != nil {
		_ = index.Close()
		return nil, err
	}
	if seeded > 0 {
		logger.Info("seeded knowledge corpus", "files", seeded)
	}

	docs, err := knowledge.LoadDocuments(cfg.KnowledgeDir())
	if err != nil {
		_ = index.Close()
		return nil, err
	}
	chunks, err := index.Rebuild(ctx, docs, cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap)
	if err != nil {
		_ = index.Close()
		return nil, err
	}
	logger.Info("knowledge index built", "documents", len(docs), "chunks", chunks)
	return index, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
