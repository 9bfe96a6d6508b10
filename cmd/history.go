package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/fgstudy/internal/quiz"
	"github.com/abhisek/fgstudy/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent quiz attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := contextOf(cmd)
		events, err := s.EventRepo().QueryQuizEvents(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		st, err := s.EventRepo().QuizStats(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		writeQuizHistory(cmd.OutOrStdout(), events, st)
		return nil
	},
}

func writeQuizHistory(w io.Writer, events []store.QuizEventRecord, st store.QuizStats) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No quiz attempts recorded yet.")
		return
	}

	t := newTable("Time", "Session", "Action", "Questions", "Score", "Time taken")
	for _, e := range events {
		score, elapsed := "", ""
		if quiz.Action(e.Action) == quiz.ActionGraded {
			score = fmt.Sprintf("%d/%d", e.Score, e.QuestionCount)
			elapsed = quiz.FormatElapsed(e.ElapsedSecs)
		}
		t.Row(
			e.Timestamp.Local().Format(timeLayout),
			truncate(e.SessionID, 8),
			e.Action,
			strconv.Itoa(e.QuestionCount),
			score,
			elapsed,
		)
	}
	printTable(w, t)
	fmt.Fprintf(w, "%d generated, %d graded, %.0f%% accuracy, average time %s\n",
		st.Generated, st.Graded, st.Accuracy()*100, quiz.FormatElapsed(st.AvgElapsedSecs))
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
}
