package main

import (
	"context"
	"fmt"
	"os"

	"github.com/thai2602/blogassist/internal/api"
	"github.com/thai2602/blogassist/internal/config"
	"github.com/thai2602/blogassist/internal/llm"
	"github.com/thai2602/blogassist/internal/logger"
	"github.com/thai2602/blogassist/internal/relevance"
	"github.com/thai2602/blogassist/internal/seed"
	"github.com/thai2602/blogassist/internal/service"
	"github.com/thai2602/blogassist/internal/store"
	"github.com/thai2602/blogassist/internal/tools"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.Path("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	log = log.With(logger.String("service", cfg.Service.Name))

	ctx := context.Background()

	mongo, err := store.Connect(ctx, &cfg.Mongo)
	if err != nil {
		log.Error("failed to connect to mongodb", logger.Error(err))
		return 1
	}
	defer func() { _ = mongo.Close(ctx) }()

	blogs := mongo.Blogs()
	users := mongo.Users()

	executor, err := tools.NewExecutor(blogs, users, tools.DefaultAuthorResolver(users), log)
	if err != nil {
		log.Error("tool registry mismatch", logger.Error(err))
		return 1
	}

	assistant := service.NewAssistant(
		&cfg.Service,
		blogs,
		relevance.New(&cfg.Relevance),
		llm.New(&cfg.Completion, log),
		executor,
		log,
	)

	handler := api.NewHandler(assistant, blogs, users, seed.New(blogs, users, log), mongo, cfg, log)
	server := api.NewServer(handler, cfg, log)

	log.Info("blogassist service starting",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
	)

	if err := server.RunWithGracefulShutdown(ctx); err != nil {
		log.Error("server error", logger.Error(err))
		return 1
	}
	return 0
}
