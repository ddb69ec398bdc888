package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fpick/internal/web"
)

var (
	serveListen string
	serveExec   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Run the file picker in the browser",
	Long: `Serve the file picker over HTTP. Every browser tab gets its own session:
it picks files under the root, sees them printed (images as thumbnails) and,
when server.exec is set, watches that command run on them.

The page URL may narrow a session with ?accept=.jpg,.png and ?multiple=true.
The root always comes from the server side.

Examples:
  fpick serve                          # Serve the configured root
  fpick serve ~/shared --listen :9000
  fpick serve --exec "wc -l"           # Run a command on every pick`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (overrides config)")
	serveCmd.Flags().StringVarP(&serveExec, "exec", "e", "", "command run on the picked files (overrides config)")
	serveCmd.Flags().StringVarP(&pickSource, "source", "s", "", "listing source: local, s3 or sftp (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if len(args) > 0 {
		cfg.Picker.Root = args[0]
	}
	if cmd.Flags().Changed("listen") {
		cfg.Server.Listen = serveListen
	}
	if cmd.Flags().Changed("exec") {
		cfg.Server.Exec = serveExec
	}
	if cfg.Auth.Enabled && len(cfg.Auth.Users) == 0 {
		logrus.Warn("auth is enabled but no users are configured, nobody can log in")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openSource(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	logrus.Infof("Serving %s from %s source", cfg.Picker.Root, src.Name())
	server := web.NewServer(cfg, src, web.PickerApp(cfg, src))
	return server.ListenAndServe(ctx)
}
