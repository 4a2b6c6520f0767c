package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/xiaot623/gogo/agentloop/config"
	"github.com/xiaot623/gogo/agentloop/internal/adapter/llm"
	"github.com/xiaot623/gogo/agentloop/internal/repository"
	"github.com/xiaot623/gogo/agentloop/internal/service"
	"github.com/xiaot623/gogo/agentloop/internal/tools"
	"github.com/xiaot623/gogo/agentloop/internal/transport/cli"
	handler "github.com/xiaot623/gogo/agentloop/internal/transport/http"
	"github.com/xiaot623/gogo/agentloop/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	profileName := flag.String("profile", cfg.Profile, "agent profile to run")
	profilesFile := flag.String("profiles", cfg.ProfilesFile, "YAML file merged over the built-in profiles")
	listProfiles := flag.Bool("list-profiles", false, "print the available profiles and exit")
	flag.Parse()

	log.SetFlags(log.Ltime)
	cfg.Profile = *profileName
	cfg.ProfilesFile = *profilesFile

	profiles, err := config.LoadProfiles(cfg.ProfilesFile)
	if err != nil {
		log.Fatalf("Failed to load profiles: %v", err)
	}
	if *listProfiles {
		for _, name := range profiles.Names() {
			fmt.Printf("%-10s %s\n", name, profiles[name].Description)
		}
		return
	}

	profile, err := profiles.Get(cfg.Profile)
	if err != nil {
		log.Fatalf("Invalid profile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Debug() {
		log.Printf("Provider: %s", cfg.Provider)
		log.Printf("Model: %s", cfg.Model)
		log.Printf("Profile: %s", profile.Name)
		log.Printf("Workdir: %s", cfg.WorkDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize tools
	registry := tools.NewRegistry()
	if err := tools.RegisterBuiltins(registry, tools.Options{
		WorkDir:        cfg.WorkDir,
		ShellTimeout:   cfg.EffectiveShellTimeout(profile),
		ShellMaxOutput: cfg.ShellMaxOutput,
	}); err != nil {
		log.Fatalf("Failed to register tools: %v", err)
	}

	// Initialize policy engine
	module, err := policy.LoadModule(cfg.PolicyFile)
	if err != nil {
		log.Fatalf("Failed to load policy: %v", err)
	}
	policyEngine, err := policy.NewEngine(ctx, module)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize LLM client
	llmClient, err := llm.NewLLMClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	// Initialize journal
	var store repository.Store
	if cfg.JournalDSN != "" {
		db, err := repository.NewSQLiteStore(cfg.JournalDSN)
		if err != nil {
			log.Fatalf("Failed to initialize journal: %v", err)
		}
		defer db.Close()
		store = db
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	lines := cli.NewLineReader(os.Stdin)

	var approver service.Approver
	switch {
	case cfg.AutoApprove:
		approver = service.StaticApprover{Allow: true}
	case interactive:
		approver = cli.NewPrompter(lines, os.Stdout)
	default:
		approver = service.StaticApprover{Allow: false}
	}

	// Initialize service
	svc, err := service.New(store, llmClient, registry, cfg, profile, policyEngine, approver)
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}
	if profile.Verbose || cfg.Debug() {
		svc.SetTrace(os.Stdout)
	}
	if cfg.Debug() {
		log.Printf("Registered tools: %v", registry.Names())
		log.Printf("Offered tools: %v", profile.Tools)
		log.Printf("Max steps per turn: %d", svc.MaxSteps())
	}
	if err := svc.StartSession(ctx); err != nil {
		log.Printf("WARN: failed to record session: %v", err)
	}

	// Start journal viewer
	if store != nil && cfg.JournalAddr != "" {
		server := handler.NewServer(store)
		go func() {
			if err := server.Start(cfg.JournalAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("ERROR: journal viewer stopped: %v", err)
			}
		}()
		log.Printf("Journal viewer started on %s", cfg.JournalAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("WARN: journal viewer shutdown: %v", err)
			}
		}()
	}

	repl := cli.NewREPL(svc, lines, os.Stdout, cli.Options{
		Greeting:     profile.Greeting,
		ShowThinking: interactive,
	})
	if err := repl.Run(ctx); err != nil {
		log.Printf("ERROR: %v", err)
	}
}
