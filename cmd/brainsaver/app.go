package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/projectbrainsaver/brainsaver/internal/agents"
	"github.com/projectbrainsaver/brainsaver/internal/config"
	"github.com/projectbrainsaver/brainsaver/internal/intent"
	"github.com/projectbrainsaver/brainsaver/internal/memory"
	"github.com/projectbrainsaver/brainsaver/internal/orchestrator"
	"github.com/projectbrainsaver/brainsaver/internal/storage"
)

// app wires storage, recall, the agent set, and the orchestrator for one
// process. Every command builds one and closes it when done.
type app struct {
	cfg        config.Config
	store      *storage.Store
	retriever  *memory.Retriever
	orch       *orchestrator.Orchestrator
	automation *agents.AutomationAgent
	sessionID  string
	logger     *slog.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.LogLevel, "debug") {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	retriever := memory.NewRetriever(store)

	desktopPath := cfg.DesktopPath
	if desktopPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			desktopPath = home + "/Desktop"
		}
	}

	automation := agents.NewAutomationAgent(desktopPath, logger)
	agentSet := map[string]agents.Agent{
		intent.AgentFile:       agents.NewFileAgent(cfg.FileRoot, logger),
		intent.AgentResearch:   agents.NewResearchAgent(logger),
		intent.AgentDomain:     agents.NewDomainAgent(logger),
		intent.AgentPhone:      agents.NewPhoneAgent(cfg.PhotoPath, cfg.ContactsFile, logger),
		intent.AgentAutomation: automation,
		intent.AgentMemory:     agents.NewRecallAgent(retriever, logger),
	}

	sessionID := uuid.New().String()
	orch := orchestrator.New(store, retriever, agentSet, sessionID, logger)

	return &app{
		cfg:        cfg,
		store:      store,
		retriever:  retriever,
		orch:       orch,
		automation: automation,
		sessionID:  sessionID,
		logger:     logger,
	}, nil
}

func (a *app) Close() error {
	a.automation.Close()
	return a.store.Close()
}
