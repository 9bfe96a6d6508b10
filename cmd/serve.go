package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/fgstudy/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the study API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd, modeCLI)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.requireLLM(); err != nil {
			return err
		}

		addr := d.cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		srv := server.New(server.Options{
			Summarizer:       d.summarizer(),
			Explainer:        d.explainer(),
			Source:           d.questionSource(),
			Observer:         d.quizObserver(),
			Logger:           d.logger,
			Addr:             addr,
			SessionTTL:       d.cfg.Server.SessionTTL,
			ReadTimeout:      d.cfg.Server.ReadTimeout,
			WriteTimeout:     d.cfg.Server.WriteTimeout,
			MaxBodyBytes:     d.cfg.Server.MaxBodyBytes,
			DefaultQuestions: d.cfg.Quiz.DefaultQuestions,
		})

		ctx, stop := signal.NotifyContext(contextOf(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d.logger.Info("starting server",
			zap.String("addr", addr),
			zap.String("provider", d.providerName))
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
