package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/mindwellhq/mindwell/pkg/agent"
	"github.com/mindwellhq/mindwell/pkg/knowledge"
	"github.com/mindwellhq/mindwell/pkg/server"
)

func executeCLI() error {
	return buildRootCommand().Execute()
}

func buildRootCommand() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "mindwell",
		Short: "Supportive conversation backend with retrieval-augmented generation and a rule-based fallback",
		Long: strings.TrimSpace(`mindwell is the backend for a mental-wellness companion.

It answers chat messages with a tiered strategy: retrieval-augmented prompting
of a configured model endpoint when one is reachable, degrading silently to a
rule-based responder otherwise. Profile and resources live as JSON documents
in the data directory.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("a subcommand is required")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultConfigPath(), "Path to the config file")

	root.AddCommand(newServeCommand(&cfgPath))
	root.AddCommand(newChatCommand(&cfgPath))
	root.AddCommand(newIndexCommand(&cfgPath))
	root.AddCommand(newStatusCommand(&cfgPath))
	root.AddCommand(newVersionCommand())

	return root
}

func newServeCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API server",
		Example: "  mindwell serve\n  MINDWELL_SERVER_PORT=8080 mindwell serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			cfg, logger, cleanup, err := loadRuntime(*cfgPath)
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			service, closeAll, err := buildService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeAll()

			addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
			return server.New(addr, service, logger).Run(ctx)
		},
	}
}

func newChatCommand(cfgPath *string) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant locally (REPL or one-shot)",
		Example: strings.Join([]string{
			"  mindwell chat",
			"  mindwell chat --message \"I can't sleep at all\"",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			cfg, logger, cleanup, err := loadRuntime(*cfgPath)
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			service, closeAll, err := buildService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeAll()

			if strings.TrimSpace(message) != "" {
				result := service.HandleChat(ctx, message, nil)
				fmt.Println(result.Reply)
				return nil
			}
			return runREPL(ctx, service)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "One-shot message instead of the interactive REPL")
	return cmd
}

func runREPL(ctx context.Context, service *agent.Service) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("Mindwell local chat. Type 'exit' to quit.")
	history := []agent.HistoryMessage{}
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		result := service.HandleChat(ctx, line, history)
		fmt.Printf("mindwell> %s\n", result.Reply)
		history = append(history,
			agent.HistoryMessage{Sender: "user", Content: line},
			agent.HistoryMessage{Sender: "assistant", Content: result.Reply},
		)
	}
}

func newIndexCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the knowledge index from the corpus directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			cfg, logger, cleanup, err := loadRuntime(*cfgPath)
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			seeded, err := knowledge.EnsureSeedCorpus(cfg.KnowledgeDir())
			if err != nil {
				return err
			}
			if seeded > 0 {
				logger.Info("seeded knowledge corpus", "files", seeded)
			}

			index, err := knowledge.OpenIndex(cfg.IndexPath())
			if err != nil {
				return err
			}
			defer func() { _ = index.Close() }()

			docs, err := knowledge.LoadDocuments(cfg.KnowledgeDir())
			if err != nil {
				return err
			}
			chunks, err := index.Rebuild(ctx, docs, cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap)
			if err != nil {
				return err
			}
			fmt.Printf("Indexed %d documents into %d chunks\n", len(docs), chunks)
			return nil
		},
	}
}

func newStatusCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and tier readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			cfg, logger, cleanup, err := loadRuntime(*cfgPath)
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			service, closeAll, err := buildService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeAll()

			health := service.HealthStatus()
			fmt.Printf("Data dir:      %s\n", cfg.DataDir())
			fmt.Printf("Server:        %s:%d\n", cfg.Server.Host, cfg.Server.Port)
			fmt.Printf("Model:         %s\n", health.Model)
			fmt.Printf("Vector store:  %s\n", health.VectorStore)
			fmt.Printf("Fallback:      available\n")
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build/version metadata",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mindwell %s\n", Version)
		},
	}
}
