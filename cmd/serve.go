package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"notemind/api"
	"notemind/config"
	"notemind/flashcards"
	"notemind/mcptools"
	"notemind/notes"
	"notemind/store"
)

func newServeCommand() *cobra.Command {
	var inMemory bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and the MCP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flagConfig)
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cfg, logger, inMemory)
		},
	}
	cmd.Flags().BoolVar(&inMemory, "memory", false, "Keep notes in process memory instead of Redis")
	return cmd
}

// backend is the storage selected for a server run.
type backend struct {
	repo  store.Repository
	index store.SectionIndex
	close func() error
}

func openBackend(ctx context.Context, cfg *config.Config, logger *logrus.Logger, inMemory bool) (*backend, error) {
	if inMemory {
		memory := store.NewMemoryStore()
		logger.Warn("using in-memory storage; notes are lost on exit")
		return &backend{repo: memory, index: memory, close: func() error { return nil }}, nil
	}

	redisClient := store.CreateRedisClient(cfg.Redis.Address, cfg.Redis.Password)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		store.CloseRedisClient(redisClient)
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Address, err)
	}

	created, err := store.EnsureEmbeddingIndex(ctx, redisClient, cfg.Redis.IndexName, cfg.Embedding.Dimension)
	if err != nil {
		store.CloseRedisClient(redisClient)
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"index":   cfg.Redis.IndexName,
		"created": created,
	}).Info("search index ready")

	redisStore := store.NewRedisStore(redisClient, cfg.Redis.IndexName)
	return &backend{
		repo:  redisStore,
		index: redisStore,
		close: func() error { return store.CloseRedisClient(redisClient) },
	}, nil
}

func newGenerator(ctx context.Context, cfg *config.Config, openaiClient openai.Client) (flashcards.Generator, func() error, error) {
	switch cfg.FlashCards.Provider {
	case config.ProviderGemini:
		gemini, err := flashcards.NewGeminiGenerator(ctx, cfg.FlashCards.APIKey, cfg.FlashCards.Model)
		if err != nil {
			return nil, nil, err
		}
		return gemini, gemini.Close, nil
	default:
		return flashcards.NewOpenAIGenerator(openaiClient, cfg.FlashCards.Model), func() error { return nil }, nil
	}
}

func runServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger, inMemory bool) error {
	// Initialize OpenAI openaiClient
	openaiClient := openai.NewClient(
		option.WithBaseURL(cfg.Embedding.BaseURL),
		option.WithAPIKey(cfg.Embedding.APIKey),
	)

	storage, err := openBackend(ctx, cfg, logger, inMemory)
	if err != nil {
		return err
	}
	defer storage.close()

	generator, closeGenerator, err := newGenerator(ctx, cfg, openaiClient)
	if err != nil {
		return err
	}
	defer closeGenerator()

	svc := notes.NewService(notes.Options{
		Repository: store.NewCachedRepository(storage.repo, cfg.Cache.TTL),
		Index:      storage.index,
		Embedder:   store.NewOpenAIEmbedder(openaiClient, cfg.Embedding.Model),
		Generator:  generator,
		Logger:     logger,
		ChunkSize:  cfg.Embedding.Dimension,
	})

	// Create MCP server
	mcpServer := server.NewMCPServer("mcp-notemind", Version)
	mcptools.RegisterTools(mcpServer, svc, cfg.Embedding.Dimension)

	mcpMux := http.NewServeMux()
	mcpMux.Handle("/mcp", server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
	))

	servers := []*http.Server{
		{Addr: ":" + cfg.Server.RESTPort, Handler: api.NewHandler(svc, logger).Routes()},
		{Addr: ":" + cfg.Server.MCPPort, Handler: mcpMux},
	}
	names := []string{"REST API", "MCP"}

	errs := make(chan error, len(servers))
	for i, srv := range servers {
		logger.WithFields(logrus.Fields{
			"server": names[i],
			"addr":   srv.Addr,
		}).Info("server is running")
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- fmt.Errorf("%s server: %w", names[i], err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errs:
		logger.WithError(runErr).Error("server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("shutdown incomplete")
		}
	}
	return runErr
}
