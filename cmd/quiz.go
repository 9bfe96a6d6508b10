package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/fgstudy/internal/quiz"
	"github.com/abhisek/fgstudy/internal/ui/components"
	"github.com/abhisek/fgstudy/internal/validate"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate and take multiple-choice quizzes",
}

var quizGenerateCmd = &cobra.Command{
	Use:   "generate [text]",
	Short: "Generate a quiz and print it with answers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")

		d, err := loadDeps(cmd, modeCLI)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.requireLLM(); err != nil {
			return err
		}
		if count == 0 {
			count = d.cfg.Quiz.DefaultQuestions
		}

		sess := quiz.NewSession(d.questionSource(), quiz.WithObserver(d.quizObserver()))
		defer sess.Discard()

		if err := sess.Generate(contextOf(cmd), text, count); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), sess.Transcript())
		return nil
	},
}

var quizTakeCmd = &cobra.Command{
	Use:   "take [text]",
	Short: "Generate a quiz and answer it in the terminal",
	Long: `Generate a quiz from notes or a topic description and answer it
question by question. Text is read from the argument or --file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			if p, _ := cmd.Flags().GetString("file"); p == "" {
				return fmt.Errorf("provide the quiz text as an argument or with --file")
			}
		}
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")

		d, err := loadDeps(cmd, modeCLI)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.requireLLM(); err != nil {
			return err
		}
		if count == 0 {
			count = d.cfg.Quiz.DefaultQuestions
		}

		sess := quiz.NewSession(d.questionSource(), quiz.WithObserver(d.quizObserver()))
		defer sess.Discard()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Generating %d questions...\n\n", count)
		if err := sess.Generate(contextOf(cmd), text, count); err != nil {
			return err
		}
		return takeQuiz(sess, cmd.InOrStdin(), out)
	},
}

func init() {
	for _, c := range []*cobra.Command{quizGenerateCmd, quizTakeCmd} {
		c.Flags().StringP("file", "f", "", "Read quiz text from file")
		c.Flags().IntP("count", "n", 0,
			fmt.Sprintf("Number of questions (%d-%d, default from config)", validate.MinQuestions, validate.MaxQuestions))
	}

	quizCmd.AddCommand(quizGenerateCmd)
	quizCmd.AddCommand(quizTakeCmd)
}

// takeQuiz runs an answering session over in/out until the user declines a
// retake or input ends.
func takeQuiz(sess *quiz.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	questions := sess.Questions()

	for {
		for i, q := range questions {
			fmt.Fprintf(out, "── Question %d/%d ──\n%s\n", i+1, len(questions), q.Prompt)
			for j, o := range q.Options {
				fmt.Fprintf(out, "  %s) %s\n", components.OptionLabel(j), o)
			}

			fmt.Fprint(out, "\nYour answer: ")
			if !scanner.Scan() {
				fmt.Fprintln(out, "\n(input closed)")
				break
			}
			idx, ok := parseChoice(scanner.Text(), len(q.Options))
			if !ok {
				fmt.Fprint(out, "(skipped)\n\n")
				continue
			}
			if err := sess.SelectAnswer(i, q.Options[idx]); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}

		if err := sess.CheckAnswers(); err != nil {
			return err
		}
		printResults(sess, questions, out)

		fmt.Fprint(out, "\nRetake? [y/N]: ")
		if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			fmt.Fprintln(out)
			return nil
		}
		fmt.Fprintln(out)
		if err := sess.Retake(); err != nil {
			return err
		}
	}
}

// parseChoice accepts a letter label (A, b, ...) or a 1-based number.
func parseChoice(s string, n int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i - 1, i >= 1 && i <= n
	}
	for i := 0; i < n; i++ {
		if strings.EqualFold(s, components.OptionLabel(i)) {
			return i, true
		}
	}
	return 0, false
}

func printResults(sess *quiz.Session, questions []quiz.Question, out io.Writer) {
	selections := sess.Selections()
	for i, q := range questions {
		sel, ok := selections[i]
		switch {
		case !ok:
			fmt.Fprintf(out, "\033[31m✗\033[0m %d. unanswered, answer: %s\n", i+1, q.CorrectAnswer)
		case sel == q.CorrectAnswer:
			fmt.Fprintf(out, "\033[32m✓\033[0m %d. %s\n", i+1, sel)
		default:
			fmt.Fprintf(out, "\033[31m✗\033[0m %d. %s, answer: %s\n", i+1, sel, q.CorrectAnswer)
		}
	}
	fmt.Fprintf(out, "\nYour score: %d out of %d\n", sess.Score(), len(questions))
	fmt.Fprintf(out, "Time taken: %s\n", sess.TimeTaken())
}
