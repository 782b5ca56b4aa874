package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/daybook/internal/db"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print every stored document as one JSON object",
		Long: `Print every stored document as one JSON object keyed by document name
(tasks, projects, groceryLists, tags, templates, darkMode, user). The output
is a backup of the data directory and can be inspected with jq.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			docs, err := exportDocuments(sess.db)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(docs)
		},
	}
}

// exportDocuments collects the raw JSON of every key in the database
func exportDocuments(database *db.DB) (map[string]json.RawMessage, error) {
	keys, err := database.DocumentKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		data, ok, err := database.GetDocument(k)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", k, err)
		}
		if ok {
			out[k] = json.RawMessage(data)
		}
	}
	return out, nil
}
