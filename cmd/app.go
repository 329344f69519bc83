package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biilim/biilim/internal/chat"
	"github.com/biilim/biilim/internal/config"
	"github.com/biilim/biilim/internal/grading"
	"github.com/biilim/biilim/internal/ingest"
	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/llm"
	"github.com/biilim/biilim/internal/logger"
	"github.com/biilim/biilim/internal/store"
	"github.com/biilim/biilim/internal/topicgen"
)

// defaultUserEmail identifies the local user when no --user flag or
// BIILIM_USER_EMAIL is given.
const defaultUserEmail = "me@localhost"

// env holds everything a command needs. Services are built on demand so
// commands that only read the database never touch a model provider.
type env struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store

	provider llm.Provider
}

// openEnv loads configuration, applies flag overrides and opens the store.
func openEnv(cmd *cobra.Command) (*env, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if err := store.EnsureDir(p); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		cfg.DBPath = p
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("database opened", "path", cfg.DBPath)
	return &env{cfg: cfg, log: log, store: s}, nil
}

func (e *env) Close() {
	e.store.Close()
	e.log.Sync()
}

func (e *env) llm(ctx context.Context) (llm.Provider, error) {
	if e.provider == nil {
		p, err := llm.NewProvider(ctx, e.cfg.LLM, e.store.EventRepo(), e.log)
		if err != nil {
			return nil, fmt.Errorf("configure model provider: %w", err)
		}
		e.provider = p
	}
	return e.provider, nil
}

func (e *env) topics(ctx context.Context) (*topicgen.Service, error) {
	p, err := e.llm(ctx)
	if err != nil {
		return nil, err
	}
	return topicgen.NewService(p, ingest.New(e.store, e.log), e.store.TopicRepo(), topicgen.DefaultConfig(), e.log), nil
}

func (e *env) chat(ctx context.Context) (*chat.Orchestrator, error) {
	p, err := e.llm(ctx)
	if err != nil {
		return nil, err
	}
	return chat.New(e.store, p, chat.DefaultConfig(), e.log), nil
}

func (e *env) grader() *grading.Grader {
	return grading.New(e.store, e.log)
}

// user resolves the acting user from --user, BIILIM_USER_EMAIL or the
// local default, creating it on first use.
func (e *env) user(cmd *cobra.Command) (*learn.User, error) {
	email, _ := cmd.Flags().GetString("user")
	if email == "" {
		email = os.Getenv("BIILIM_USER_EMAIL")
	}
	if email == "" {
		email = defaultUserEmail
	}
	name, _, _ := strings.Cut(email, "@")
	return e.store.UserRepo().EnsureUser(cmd.Context(), email, name)
}

func parseID(s string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
