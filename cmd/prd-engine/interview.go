// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/prd-engine/internal/interview"
	"github.com/pdiddy/prd-engine/internal/session"
	"github.com/pdiddy/prd-engine/pkg/types"
)

var interviewCmd = &cobra.Command{
	Use:   "interview [session-id]",
	Short: "Answer the adaptive question set for a session",
	Long: `Interview walks through the questions that apply to the session's
product context. Answers unlock follow-up questions; already-answered
questions are not asked again. Press enter to skip a question for now,
or type "quit" to stop; progress is saved after every answer.

Answers can also be supplied non-interactively with repeated
--answer key=value flags.`,
	Args: cobra.ExactArgs(1),
	RunE: runInterview,
}

func runInterview(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	sess, err := st.Load(ctx, args[0])
	if err != nil {
		return err
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}

	batch, _ := cmd.Flags().GetStringArray("answer")
	if len(batch) > 0 {
		return runBatchAnswers(ctx, st, sess, eng, batch)
	}

	return runInteractive(ctx, st, sess, eng)
}

// runBatchAnswers records key=value answers without prompting.
func runBatchAnswers(ctx context.Context, st sessionSaver, sess *session.Session, eng *interview.Engine, pairs []string) error {
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return fmt.Errorf("malformed --answer %q: expected key=value", pair)
		}
		if _, err := sess.RecordAnswer(eng, key, value, time.Now()); err != nil {
			return err
		}
		fmt.Printf("recorded %s\n", key)
	}

	if err := st.Save(ctx, sess); err != nil {
		return err
	}
	printProgress(sess, eng)
	return nil
}

// runInteractive prompts for each unanswered applicable question in turn.
func runInteractive(ctx context.Context, st sessionSaver, sess *session.Session, eng *interview.Engine) error {
	scanner := bufio.NewScanner(os.Stdin)
	skipped := map[string]bool{}
	lastSection := ""
	sectionColor := color.New(color.Bold, color.FgCyan)

	for {
		q, ok := nextUnskipped(eng, sess, skipped)
		if !ok {
			break
		}

		if q.Section != lastSection {
			sectionColor.Printf("\n-- %s --\n", q.Section)
			lastSection = q.Section
		}

		fmt.Printf("\n%s\n", q.Prompt)
		if q.Help != "" {
			fmt.Printf("  (%s)\n", q.Help)
		}
		if len(q.Choices) > 0 {
			fmt.Printf("  choices: %s\n", strings.Join(q.Choices, ", "))
		}
		fmt.Print("> ")

		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		if input == "" {
			skipped[q.Key] = true
			continue
		}
		if input == "quit" {
			break
		}

		if _, err := sess.RecordAnswer(eng, q.Key, input, time.Now()); err != nil {
			if errors.Is(err, interview.ErrValidation) {
				fmt.Printf("  %v\n", err)
				continue
			}
			return err
		}

		if err := st.Save(ctx, sess); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if err := st.Save(ctx, sess); err != nil {
		return err
	}
	printProgress(sess, eng)
	return nil
}

// nextUnskipped returns the first unanswered applicable question not
// skipped in this run.
func nextUnskipped(eng *interview.Engine, sess *session.Session, skipped map[string]bool) (types.QuestionDefinition, bool) {
	for _, q := range eng.NextQuestions(sess.Context, sess.Answers) {
		if !skipped[q.Key] {
			return q, true
		}
	}
	return types.QuestionDefinition{}, false
}

func printProgress(sess *session.Session, eng *interview.Engine) {
	completeness := eng.Completeness(sess.Context, sess.Answers)
	fmt.Printf("\n%s: %d answers, %.0f%% complete\n", sess.ID, sess.Answers.Len(), completeness*100)
	if eng.Complete(sess.Context, sess.Answers) {
		fmt.Printf("Interview complete. Next: prd-engine generate %s\n", sess.ID)
	}
}

// sessionSaver is the part of the store the interview needs.
type sessionSaver interface {
	Save(ctx context.Context, sess *session.Session) error
}

func init() {
	interviewCmd.Flags().StringArray("answer", nil, "record an answer as key=value (repeatable, skips the prompt loop)")

	rootCmd.AddCommand(interviewCmd)
}
