package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/store"
	"gopkg.in/yaml.v3"
)

const defaultTagColor = "#7aa2f7"

// templateFile is the YAML layout accepted by "templates import":
//
//	templates:
//	  - name: Weekly review
//	    title: Review the week
//	    priority: high
//	    estimatedHours: 1.5
//	    tags: [work]
//	    subtasks: [Inbox zero, Plan next week]
type templateFile struct {
	Templates []templateEntry `yaml:"templates"`
}

type templateEntry struct {
	Name           string   `yaml:"name"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Priority       string   `yaml:"priority"`
	EstimatedHours *float64 `yaml:"estimatedHours"`
	Tags           []string `yaml:"tags"`
	Subtasks       []string `yaml:"subtasks"`
}

func newTemplatesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage task templates",
	}
	cmd.AddCommand(
		newTemplatesListCmd(opts),
		newTemplatesImportCmd(opts),
		newTemplatesUseCmd(opts),
	)
	return cmd
}

func newTemplatesListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			templates := sess.store.Snapshot().Templates
			if len(templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates")
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "NAME", "TITLE", "PRIORITY", "SUBTASKS")
			for _, tpl := range templates {
				t.Row(tpl.ID, tpl.Name, tpl.Title, string(tpl.Priority), fmt.Sprint(len(tpl.Subtasks)))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
}

func newTemplatesImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import templates from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readTemplateFile(args[0])
			if err != nil {
				return err
			}

			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			now := time.Now()
			for _, entry := range entries {
				tpl, err := entry.build(sess.store, now)
				if err != nil {
					return err
				}
				sess.store.AddTemplate(tpl)
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%s)\n", tpl.Name, tpl.ID)
			}
			return nil
		},
	}
}

func readTemplateFile(path string) ([]templateEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(f.Templates) == 0 {
		return nil, fmt.Errorf("%s contains no templates", path)
	}
	return f.Templates, nil
}

// build turns a file entry into a template. Tag names are matched against the
// registry case-insensitively and missing ones are registered.
func (s templateEntry) build(st *store.Store, now time.Time) (models.TaskTemplate, error) {
	if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Title) == "" {
		return models.TaskTemplate{}, errors.New("every template needs a name and a title")
	}
	priority := models.PriorityMedium
	if s.Priority != "" {
		p, err := parsePriority(s.Priority)
		if err != nil {
			return models.TaskTemplate{}, fmt.Errorf("template %s: %w", s.Name, err)
		}
		priority = p
	}

	tpl := models.TaskTemplate{
		ID:             "template_" + uuid.NewString(),
		Name:           s.Name,
		Title:          s.Title,
		Description:    s.Description,
		Priority:       priority,
		EstimatedHours: s.EstimatedHours,
		Tags:           []models.Tag{},
		Subtasks:       make([]models.SubtaskBlueprint, 0, len(s.Subtasks)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, title := range s.Subtasks {
		tpl.Subtasks = append(tpl.Subtasks, models.SubtaskBlueprint{Title: title})
	}
	for _, name := range s.Tags {
		tpl.Tags = append(tpl.Tags, ensureTag(st, name))
	}
	return tpl, nil
}

func ensureTag(st *store.Store, name string) models.Tag {
	for _, tag := range st.Snapshot().Tags {
		if strings.EqualFold(tag.Name, name) {
			return tag
		}
	}
	tag := models.Tag{ID: "tag_" + uuid.NewString(), Name: name, Color: defaultTagColor}
	st.AddTag(tag)
	return tag
}

func newTemplatesUseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use ID",
		Short: "Create a task from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			task, err := sess.store.CreateTaskFromTemplate(args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no template with id %s", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), task.ID)
			return nil
		},
	}
}
