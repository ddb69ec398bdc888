package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fpick/internal/config"
	"github.com/HaiFongPan/fpick/internal/picker"
	"github.com/HaiFongPan/fpick/internal/session"
	"github.com/HaiFongPan/fpick/internal/source"
	"github.com/HaiFongPan/fpick/internal/tui"
)

var (
	pickMultiple   bool
	pickAccept     []string
	pickCancelable bool
	pickTitle      string
	pickHidden     bool
	pickWatch      bool
	pickSource     string
	pickJSON       bool
)

// pickCmd represents the pick command
var pickCmd = &cobra.Command{
	Use:   "pick [path]",
	Short: "Pick files interactively",
	Long: `Open the file picker on a directory and print the picked paths, one per
line. Navigation stays inside the starting directory. Nothing is printed
when the picker is cancelled.

Examples:
  fpick pick                          # Pick one file under the configured root
  fpick pick ~/docs --multiple        # Pick several files
  fpick pick --accept .pdf,.docx      # Only offer documents
  fpick pick --source sftp /var/log   # Browse a remote host
  fpick pick --json                   # Print the outcome as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
	addPickFlags(pickCmd)
}

func addPickFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&pickMultiple, "multiple", "m", false, "allow picking several files")
	cmd.Flags().StringSliceVarP(&pickAccept, "accept", "a", nil, "accepted file suffixes, e.g. .jpg,.png")
	cmd.Flags().BoolVar(&pickCancelable, "cancelable", true, "offer a cancel button")
	cmd.Flags().StringVarP(&pickTitle, "title", "t", "", "picker title")
	cmd.Flags().BoolVar(&pickHidden, "hidden", false, "show hidden entries")
	cmd.Flags().BoolVarP(&pickWatch, "watch", "w", false, "refresh when the directory changes (local only)")
	cmd.Flags().StringVarP(&pickSource, "source", "s", "", "listing source: local, s3 or sftp (overrides config)")
	cmd.Flags().BoolVar(&pickJSON, "json", false, "print the outcome as JSON")
}

// pickOptions merges the picker flags over the configured defaults
func pickOptions(cmd *cobra.Command, cfg *config.Config, args []string) session.PickOptions {
	opts := session.PickOptions{
		Root:       cfg.Picker.Root,
		Multiple:   cfg.Picker.Multiple,
		Accept:     cfg.Picker.Accept,
		Cancelable: cfg.Picker.Cancelable,
		Title:      cfg.Picker.Title,
		ShowHidden: cfg.Picker.ShowHidden,
		Watch:      cfg.Picker.Watch,
	}
	if len(args) > 0 {
		opts.Root = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("multiple") {
		opts.Multiple = pickMultiple
	}
	if flags.Changed("accept") {
		opts.Accept = pickAccept
	}
	if flags.Changed("cancelable") {
		opts.Cancelable = pickCancelable
	}
	if flags.Changed("title") {
		opts.Title = pickTitle
	}
	if flags.Changed("hidden") {
		opts.ShowHidden = pickHidden
	}
	if flags.Changed("watch") {
		opts.Watch = pickWatch
	}
	return opts
}

// openSource builds the configured listing source, honouring --source
func openSource(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (source.Source, error) {
	if cmd.Flags().Lookup("source") != nil && cmd.Flags().Changed("source") {
		cfg.Picker.Source = pickSource
	}
	src, err := source.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s source: %w", cfg.Picker.Source, err)
	}
	return src, nil
}

func runPick(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	src, err := openSource(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	opts := pickOptions(cmd, cfg, args)
	if opts.Watch && src.Name() != config.SourceLocal {
		logrus.Warnf("watch is only supported for the local source, ignoring")
		opts.Watch = false
	}

	store, err := config.LoadUserData()
	if err != nil {
		logrus.Warnf("Failed to load user data: %v", err)
	}

	var outcome picker.Outcome
	err = tui.Run(ctx, opts.Title, store, func(ctx context.Context, host session.Host) error {
		var err error
		outcome, err = session.PickFiles(ctx, host, src, opts)
		return err
	})
	if errors.Is(err, session.ErrSessionClosed) {
		// the user quit, same as cancelling
		outcome = picker.Outcome{Multiple: opts.Multiple, Cancelled: true}
	} else if err != nil {
		return err
	}

	if store != nil && src.Name() == config.SourceLocal {
		if abs, err := src.Abs(opts.Root); err == nil {
			if err := store.SetLastRoot(abs); err != nil {
				logrus.Warnf("Failed to save user data: %v", err)
			}
		}
	}

	return printOutcome(outcome)
}

func printOutcome(outcome picker.Outcome) error {
	if pickJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}
	if outcome.None() {
		return nil
	}
	if len(outcome.Paths) > 0 {
		fmt.Println(strings.Join(outcome.Paths, "\n"))
	}
	return nil
}
