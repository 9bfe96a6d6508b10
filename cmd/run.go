package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/fgstudy/internal/app"
	"github.com/abhisek/fgstudy/internal/screens/home"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := loadDeps(cmd, modeTUI)
	if err != nil {
		return err
	}
	defer d.Close()

	opts := app.Options{
		Services: home.Services{
			Events:           d.store.EventRepo(),
			DefaultQuestions: d.cfg.Quiz.DefaultQuestions,
		},
		Provider: d.providerName,
	}

	if err := d.requireLLM(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		opts.Provider = "offline"
	} else {
		opts.Summarizer = d.summarizer()
		opts.Explainer = d.explainer()
		opts.Source = d.questionSource()
		opts.Observer = d.quizObserver()
	}

	return app.Run(contextOf(cmd), opts)
}
