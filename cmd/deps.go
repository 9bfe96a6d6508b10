package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/fgstudy/internal/config"
	"github.com/abhisek/fgstudy/internal/explain"
	"github.com/abhisek/fgstudy/internal/llm"
	"github.com/abhisek/fgstudy/internal/logger"
	"github.com/abhisek/fgstudy/internal/quiz"
	"github.com/abhisek/fgstudy/internal/quizgen"
	"github.com/abhisek/fgstudy/internal/store"
	"github.com/abhisek/fgstudy/internal/summarize"
)

// deps holds what a command needs: config, logger, the event store and the
// LLM-backed services. Provider construction may fail; commands that need
// it call requireLLM.
type deps struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store

	provider     llm.Provider
	providerName string
	providerErr  error
}

type depsMode int

const (
	modeCLI depsMode = iota
	modeTUI
)

// loadDeps loads config, builds the logger, opens the store and constructs
// the provider chain with LLM calls recorded in the store.
func loadDeps(cmd *cobra.Command, mode depsMode) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var log *zap.Logger
	if mode == modeTUI {
		log, err = logger.NewForTUI(cfg)
	} else {
		log, err = logger.New(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	d := &deps{cfg: cfg, logger: log, store: st}

	llmCfg, err := cfg.ResolveLLM()
	if err != nil {
		d.providerErr = err
		return d, nil
	}
	d.providerName = llmCfg.Provider
	d.provider, d.providerErr = llm.NewProvider(contextOf(cmd), llmCfg, st.EventRepo(), log)
	return d, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (d *deps) Close() {
	_ = d.logger.Sync()
	if err := d.store.Close(); err != nil {
		d.logger.Warn("failed to close store", zap.Error(err))
	}
}

func (d *deps) requireLLM() error {
	if d.providerErr != nil {
		return fmt.Errorf("LLM provider not configured: %w", d.providerErr)
	}
	return nil
}

func (d *deps) summarizer() *summarize.Service {
	return summarize.NewService(d.provider, 0)
}

func (d *deps) explainer() *explain.Service {
	return explain.NewService(d.provider, 0)
}

func (d *deps) questionSource() *quizgen.Generator {
	return quizgen.New(d.provider, quizgen.DefaultConfig())
}

// quizObserver appends every quiz transition to the event log.
func (d *deps) quizObserver() quiz.Observer {
	repo := d.store.EventRepo()
	return func(ev quiz.Event) {
		err := repo.AppendQuizEvent(context.Background(), store.QuizEventData{
			SessionID:     ev.SessionID,
			Action:        string(ev.Action),
			QuestionCount: ev.QuestionCount,
			Score:         ev.Score,
			ElapsedSecs:   ev.ElapsedSeconds,
		})
		if err != nil {
			d.logger.Warn("failed to record quiz event",
				zap.String("session_id", ev.SessionID),
				zap.String("action", string(ev.Action)),
				zap.Error(err))
		}
	}
}
