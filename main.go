package main

import (
	"context"
	"log"
	"time"

	"tribunal/adapters/postgres"
	"tribunal/ai"
	"tribunal/app"
	"tribunal/internal/config"
	"tribunal/internal/migration"
	"tribunal/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Main] No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Main] Configuration error: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("[Main] Database connection failed: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	migrationCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migration.NewRunner().Run(migrationCtx, db); err != nil {
		log.Fatalf("[Main] Migration failed: %v", err)
	}

	caseRepo := postgres.NewCaseRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	argumentRepo := postgres.NewArgumentRepository(db)
	verdictRepo := postgres.NewVerdictRepository(db)
	userRepo := postgres.NewUserRepository(db)

	judge := ai.NewJudge(&cfg.AI)
	roundJudge := judge.WithMaxTokens(cfg.AI.MaxRoundVerdictTokens)
	extractor := ai.NewExtractor(&cfg.AI)

	authService := app.NewAuthService(userRepo, &cfg.Auth)
	caseService := app.NewCaseService(caseRepo, caseRepo, verdictRepo)
	documentService := app.NewDocumentService(
		caseRepo, documentRepo, extractor,
		cfg.Uploads.Dir, cfg.Uploads.MaxSizeMB, cfg.Uploads.ExtractionConcurrency,
	)
	argumentService := app.NewArgumentService(caseRepo, documentRepo, argumentRepo, verdictRepo, roundJudge)
	verdictService := app.NewVerdictService(caseRepo, documentRepo, verdictRepo, judge)

	ops := ui.NewOpsServer(cfg.Server.OpsPort, db, cfg.Profiling.Enabled)
	go func() {
		if err := ops.Start(); err != nil {
			log.Fatalf("[Main] Ops server failed: %v", err)
		}
	}()

	api := ui.NewApp(&cfg.Server, ui.Services{
		Auth:      authService,
		Cases:     caseService,
		Documents: documentService,
		Arguments: argumentService,
		Verdicts:  verdictService,
	})
	if err := api.Start(); err != nil {
		log.Fatalf("[Main] API server failed: %v", err)
	}
}
