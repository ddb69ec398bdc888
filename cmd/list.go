package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fpick/internal/picker"
)

var (
	listAccept []string
	listHidden bool
	listJSON   bool
	showSize   bool
	showDate   bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List a directory the way the picker shows it",
	Long: `List a directory with the picker's ordering and filtering: directories
first, then files, case-insensitive by name, hidden entries and files not
matching --accept left out.

Examples:
  fpick list                       # List the configured root
  fpick list ~/photos --accept .jpg
  fpick list --size=false --date=false
  fpick list --source s3 photos/`,
	Args: cobra.MaximumNArgs(1),
	RunE: listFiles,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringSliceVarP(&listAccept, "accept", "a", nil, "accepted file suffixes (overrides config)")
	listCmd.Flags().BoolVar(&listHidden, "hidden", false, "show hidden entries")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print rows as JSON")
	listCmd.Flags().BoolVar(&showSize, "size", true, "show file sizes")
	listCmd.Flags().BoolVar(&showDate, "date", true, "show modification dates")
	listCmd.Flags().StringVarP(&pickSource, "source", "s", "", "listing source: local, s3 or sftp (overrides config)")
}

// discardSink drops render updates; listing only needs the entries
type discardSink struct{}

func (discardSink) ShowBreadcrumb([]picker.Crumb) {}
func (discardSink) ShowEntries([]picker.Row)      {}
func (discardSink) SetAction(*picker.Action)      {}
func (discardSink) ShowSelection([]string)        {}
func (discardSink) ClearRowSelection()            {}
func (discardSink) Notify(n picker.Notice)        { logrus.Debugf("list: %s", n.Message) }

func listFiles(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	root := cfg.Picker.Root
	if len(args) > 0 {
		root = args[0]
	}
	accept := cfg.Picker.Accept
	if cmd.Flags().Changed("accept") {
		accept = listAccept
	}
	hidden := cfg.Picker.ShowHidden || listHidden

	src, err := openSource(cmd.Context(), cmd, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	p, err := picker.New(root, picker.Options{
		Accept:     picker.ParseAccept(accept...),
		ShowHidden: hidden,
	}, src, discardSink{})
	if err != nil {
		return err
	}

	logrus.Debugf("Listing %s from %s source", p.Root(), src.Name())
	entries, err := p.Entries(p.Root())
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", p.Root(), err)
	}

	rows := picker.Rows(entries)
	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	return outputTable(rows)
}

func outputTable(rows []picker.Row) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	// Header
	header := "NAME"
	if showSize {
		header += "\tSIZE"
	}
	if showDate {
		header += "\tMODIFIED"
	}
	fmt.Fprintln(w, header)

	for _, row := range rows {
		line := row.Name

		if showSize {
			line += fmt.Sprintf("\t%s", row.Size)
		}

		if showDate {
			line += fmt.Sprintf("\t%s", row.Modified)
		}

		fmt.Fprintln(w, line)
	}

	return w.Flush()
}
