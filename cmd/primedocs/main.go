package main

import (
	"context"
	"os"
	"path/filepath"

	"concierge-be/internal/config"
	"concierge-be/internal/constant"
	"concierge-be/internal/pkg/logger"
	"concierge-be/internal/repository/implementation"
	"concierge-be/internal/service"
	"concierge-be/pkg/backboard"
	"concierge-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// primedocs verifies the shared knowledge base on disk and, when given
// a user id, provisions that user's assistant from the command line
// with progress printed to the terminal. Useful for pre-warming demo
// accounts.
func main() {
	cfg := config.Load()

	color.Cyan("🚀 Checking shared knowledge base\n")

	missing := 0
	for _, filename := range constant.SharedDocuments {
		path := filepath.Join(cfg.Backboard.SharedDocsDir, filename)
		if _, err := os.Stat(path); err != nil {
			color.Red("  ✗ %s (missing)", filename)
			missing++
			continue
		}
		color.Green("  ✓ %s", filename)
	}

	if missing > 0 {
		color.Yellow("\n%d of %d documents missing; provisioning will skip them", missing, len(constant.SharedDocuments))
	} else {
		color.Green("\nAll %d documents present", len(constant.SharedDocuments))
	}

	if len(os.Args) < 2 {
		color.Cyan("\nPass a user id to provision an assistant: primedocs <user-uuid> [display-name]")
		return
	}

	userId, err := uuid.Parse(os.Args[1])
	if err != nil {
		color.Red("Invalid user id %q: %v", os.Args[1], err)
		os.Exit(1)
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Database connection failed: %v", err)
		os.Exit(1)
	}

	sysLogger := logger.NewIsolatedLogger("logs/primedocs.log")
	bbClient := backboard.NewClient(cfg.Backboard.BaseURL, cfg.Backboard.APIKey)
	repo := implementation.NewUserAssistantRepository(gormDB)
	assistants := service.NewAssistantService(bbClient, repo, service.NewRealClock(), cfg.Backboard, sysLogger)

	color.Cyan("\nProvisioning assistant for %s", userId)

	// Optional second argument personalizes the assistant name.
	displayName := ""
	if len(os.Args) > 2 {
		displayName = os.Args[2]
	}

	assistant, created, err := assistants.EnsureAssistant(context.Background(), userId, displayName, func(ev service.ProgressEvent) {
		if ev.Total > 0 {
			color.Yellow("  [%s] %s (%d/%d)", ev.Step, ev.Message, ev.Current, ev.Total)
			return
		}
		color.Yellow("  [%s] %s", ev.Step, ev.Message)
	})
	if err != nil {
		color.Red("Provisioning failed: %v", err)
		os.Exit(1)
	}

	if created {
		color.Green("\n✅ Assistant %s created (%s)", assistant.AssistantName, assistant.AssistantId)
	} else {
		color.Green("\n✅ Assistant already provisioned (%s)", assistant.AssistantId)
	}
}
