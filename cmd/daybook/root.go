package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tgienger/daybook/internal/config"
	"github.com/tgienger/daybook/internal/db"
	"github.com/tgienger/daybook/internal/logging"
	"github.com/tgienger/daybook/internal/store"
	"github.com/tgienger/daybook/internal/ui"
)

// rootOptions carries what every command needs before it touches data
type rootOptions struct {
	v        *viper.Viper
	envFiles []string
	verbose  bool
	cfg      *config.Config
}

// session is an open data directory: database, lock, logger and store
type session struct {
	cfg     *config.Config
	db      *db.DB
	store   *store.Store
	log     *slog.Logger
	logFile io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "daybook",
		Short: "daybook - tasks, projects, groceries and templates in your terminal",
		Long: `daybook keeps tasks, projects, grocery lists and task templates in a
local database and shows them in a terminal UI. Run it without a command to
open the UI.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (DAYBOOK_DATA_DIR, DAYBOOK_LOG_LEVEL, .env honored)
3. daybook.yaml in $XDG_CONFIG_HOME/daybook or the working directory
4. Defaults ($XDG_DATA_HOME/daybook, log level warn)`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(opts.v, opts.envFiles...)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(opts)
		},
	}

	cmd.PersistentFlags().String(config.KeyDataDir, "", "Directory holding the database and logs")
	cmd.PersistentFlags().String(config.KeyLogLevel, "warn", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Also print log records to stderr")

	cmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newAddCmd(opts),
		newListCmd(opts),
		newStatsCmd(opts),
		newTemplatesCmd(opts),
		newAttachCmd(opts),
		newSummarizeCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

// open locks the data directory and loads the store. Callers must Close
// the session.
func (o *rootOptions) open() (*session, error) {
	var mirror io.Writer
	if o.verbose {
		mirror = os.Stderr
	}
	logger, logFile, err := logging.New(o.cfg.LogPath(), o.cfg.LogLevel, mirror)
	if err != nil {
		return nil, err
	}

	database, err := db.New(o.cfg.DBPath(), o.cfg.LockPath())
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	st := store.New(database, store.WithLogger(logger))
	st.Initialize()
	logger.Debug("store initialized", "data_dir", o.cfg.DataDir)

	return &session{cfg: o.cfg, db: database, store: st, log: logger, logFile: logFile}, nil
}

func (s *session) Close() {
	s.store.Close()
	if err := s.db.Close(); err != nil {
		s.log.Error("failed to close database", "error", err)
	}
	s.logFile.Close()
}

func runUI(opts *rootOptions) error {
	sess, err := opts.open()
	if err != nil {
		return err
	}
	defer sess.Close()

	app := ui.NewApp(sess.store, sess.db)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Actions run on the UI goroutine, so delivery must not block it.
	// The app drops snapshots older than the one it holds.
	unsubscribe := sess.store.Subscribe(func(snap store.Snapshot) {
		go p.Send(ui.SnapshotMsg{Snapshot: snap})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running application: %w", err)
	}
	return nil
}
