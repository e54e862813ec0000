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

	log.Info("starting blogassist service",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug),
	)

	ctx := context.Background()

	log.Info("connecting to mongodb", logger.String("database", cfg.Mongo.Database))
	mongo, err := store.Connect(ctx, &cfg.Mongo)
	if err != nil {
		log.Error("failed to connect to mongodb", logger.Error(err))
		return 1
	}
	defer func() { _ = mongo.Close(ctx) }()
	log.Info("connected to mongodb")

	return runServer(ctx, cfg, mongo, log)
}

func runServer(ctx context.Context, cfg *config.Config, mongo *store.Mongo, log logger.Logger) int {
	blogs := mongo.Blogs()
	users := mongo.Users()

	executor, err := tools.NewExecutor(blogs, users, tools.DefaultAuthorResolver(users), log)
	if err != nil {
		log.Error("tool registry mismatch", logger.Error(err))
		return 1
	}

	engine := relevance.New(&cfg.Relevance)
	completions := llm.New(&cfg.Completion, log)
	assistant := service.NewAssistant(&cfg.Service, blogs, engine, completions, executor, log)
	seeder := seed.New(blogs, users, log)

	handler := api.NewHandler(assistant, blogs, users, seeder, mongo, cfg, log)
	server := api.NewServer(handler, cfg, log)

	if err := server.RunWithGracefulShutdown(ctx); err != nil {
		log.Error("server error", logger.Error(err))
		return 1
	}

	log.Info("blogassist service exited cleanly")
	return 0
}
