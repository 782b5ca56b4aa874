package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tgienger/daybook/internal/attach"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/summary"
)

func newAttachCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "attach TASK FILE",
		Short: "Attach a local file to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			task, err := requireTask(sess.store, args[0])
			if err != nil {
				return err
			}
			a, err := attach.FromFile(args[1], time.Now())
			if err != nil {
				return err
			}

			sess.store.AddAttachmentToTask(task.ID, a)
			fmt.Fprintf(cmd.OutOrStdout(), "Attached %s (%s, %d bytes)\n", a.Name, a.Type, a.Size)
			return nil
		},
	}
}

func newSummarizeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize TASK FILE",
		Short: "Summarize a text file into a note on the task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := attach.ReadText(args[1])
			if err != nil {
				return err
			}
			sum := summary.Summarize(text)
			if sum == "" {
				return fmt.Errorf("%s has no sentences long enough to summarize", args[1])
			}

			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			task, err := requireTask(sess.store, args[0])
			if err != nil {
				return err
			}

			now := time.Now()
			sess.store.AddNoteToTask(task.ID, models.Note{
				ID:        "note_" + uuid.NewString(),
				Content:   fmt.Sprintf("Summary of %s:\n\n%s", filepath.Base(args[1]), sum),
				CreatedAt: now,
				UpdatedAt: now,
			})
			fmt.Fprintln(cmd.OutOrStdout(), sum)
			return nil
		},
	}
}
