package web

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HaiFongPan/fpick/internal/auth"
	"github.com/HaiFongPan/fpick/internal/config"
	"github.com/HaiFongPan/fpick/internal/picker"
	"github.com/HaiFongPan/fpick/internal/session"
	"github.com/HaiFongPan/fpick/internal/source"
	"github.com/HaiFongPan/fpick/internal/utils"
)

// OutputLogbox is the log box the picker app prints its results to
const OutputLogbox = "output"

// PickerApp is the default browser session: optional login, then pick files,
// print them and run the configured command on them until the user stops.
func PickerApp(cfg *config.Config, src source.Source) App {
	signer := newSigner(cfg)
	users := auth.Users(cfg.Auth.Users)

	return func(ctx context.Context, host *Host) error {
		var token string
		if signer != nil {
			user, err := session.BasicAuth(ctx, host, users.Verify, signer)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			host.log.WithField("user", user).Info("logged in")
			// thumbnail URLs carry their own token
			if token, err = signer.Sign(user); err != nil {
				return fmt.Errorf("login: %w", err)
			}
		}

		opts := pickOptions(cfg, host)
		if err := session.PutLogbox(host, OutputLogbox, session.DefaultLogboxHeight, true); err != nil {
			return err
		}
		out, err := session.RedirectOutput(host, OutputLogbox)
		if err != nil {
			return err
		}

		for {
			outcome, err := session.PickFiles(ctx, host, src, opts)
			if err != nil {
				return err
			}
			printOutcome(out, host, outcome, token)

			if cfg.Server.Exec != "" && len(outcome.Paths) > 0 {
				command := cfg.Server.Exec + " " + shellQuote(outcome.Paths...)
				fmt.Fprintf(out, "$ %s\n", command)
				if err := session.RunShell(ctx, command, out); err != nil {
					fmt.Fprintf(out, "command failed: %v\n", err)
				}
			}

			again, err := session.Confirm(ctx, host, "Pick again?", "", 0)
			if err != nil {
				return err
			}
			if again != session.AnswerConfirmed {
				fmt.Fprintln(out, "Bye.")
				return nil
			}
		}
	}
}

// pickOptions starts from the configured picker and applies the accept and
// multiple overrides of the page URL. The root never comes from the URL.
func pickOptions(cfg *config.Config, host session.Host) session.PickOptions {
	opts := session.PickOptions{
		Root:       cfg.Picker.Root,
		Multiple:   cfg.Picker.Multiple,
		Accept:     cfg.Picker.Accept,
		Cancelable: cfg.Picker.Cancelable,
		Title:      cfg.Picker.Title,
		ShowHidden: cfg.Picker.ShowHidden,
	}

	query, err := session.AllQuery(host)
	if err != nil {
		return opts
	}
	if v, ok := query["accept"]; ok && v != "" {
		opts.Accept = strings.Split(v, ",")
	}
	if v, ok := query["multiple"]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.Multiple = b
		}
	}
	return opts
}

func printOutcome(out io.Writer, host session.Host, outcome picker.Outcome, token string) {
	switch {
	case outcome.Cancelled:
		fmt.Fprintln(out, "Cancelled.")
		return
	case len(outcome.Paths) == 0:
		fmt.Fprintln(out, "Nothing selected.")
		return
	}

	fmt.Fprintf(out, "Picked %d file(s):\n", len(outcome.Paths))
	for _, p := range outcome.Paths {
		fmt.Fprintf(out, "  %s\n", p)
		if utils.IsImageFile(p) {
			// hosts without media support just get the path
			session.PutImage(host, thumbURL(p, token), filepath.Base(p))
		}
	}
}

// thumbURL is the thumbnail endpoint URL for path, carrying token if set
func thumbURL(path, token string) string {
	q := url.Values{"path": {path}}
	if token != "" {
		q.Set(TokenParam, token)
	}
	return "/api/thumb?" + q.Encode()
}

// shellQuote single-quotes each argument for sh
func shellQuote(args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}
