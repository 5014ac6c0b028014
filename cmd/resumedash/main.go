package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"resumedash/internal/bootstrap"
	analysisdto "resumedash/internal/modules/analysis/dto"
	"resumedash/internal/platform/config"
	"resumedash/internal/platform/logging"
)

const (
	envEmail    = "RESUMEDASH_EMAIL"
	envPassword = "RESUMEDASH_PASSWORD"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	stateDir string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "resumedash",
		Short:         "Resume upload and analysis dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.stateDir, "state-dir", config.DefaultStateDir(), "directory holding session, results and config")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newLoginCmd(flags))
	root.AddCommand(newLogoutCmd(flags))
	root.AddCommand(newWhoamiCmd(flags))
	root.AddCommand(newUploadCmd(flags))
	root.AddCommand(newResultsCmd(flags))
	root.AddCommand(newDoctorCmd(flags))
	root.AddCommand(newTUICmd(flags))
	return root
}

func loadConfig(flags *globalFlags) (config.Config, error) {
	return config.New(flags.stateDir)
}

// loadApp builds the app with a stderr logger. The caller must Close it.
func loadApp(cmd *cobra.Command, flags *globalFlags) (*bootstrap.App, config.Config, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, config.Config{}, err
	}
	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	app, err := bootstrap.New(cfg, logging.New(cmd.ErrOrStderr(), level))
	if err != nil {
		return nil, config.Config{}, err
	}
	return app, cfg, nil
}

func newLoginCmd(flags *globalFlags) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()

			in := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				email = os.Getenv(envEmail)
			}
			if email == "" {
				if email, err = prompt(in, cmd.OutOrStdout(), "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				password = os.Getenv(envPassword)
			}
			if password == "" {
				if password, err = promptPassword(in, cmd.InOrStdin(), cmd.OutOrStdout(), "Password: "); err != nil {
					return err
				}
			}

			session, err := app.AuthCLI.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (expires %s)\n", session.Email, session.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (or "+envEmail+")")
	cmd.Flags().StringVar(&password, "password", "", "account password (or "+envPassword+")")
	return cmd
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when stdin is a terminal and falls back
// to a plain line read for pipes.
func promptPassword(in *bufio.Reader, stdin io.Reader, out io.Writer, label string) (string, error) {
	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return prompt(in, out, label)
	}
	_, _ = fmt.Fprint(out, label)
	raw, err := term.ReadPassword(int(f.Fd()))
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func newLogoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.AuthCLI.SignOut(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			user, ok, err := app.AuthCLI.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
}

func newUploadCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a PDF or DOCX resume and run the analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			file, err := app.AnalysisCLI.Inspect(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "%s  %s  %d bytes", file.Name, file.MimeType, file.Size)
			if file.Pages > 0 {
				_, _ = fmt.Fprintf(out, "  %d pages", file.Pages)
			}
			if file.Words > 0 {
				_, _ = fmt.Fprintf(out, "  %d words", file.Words)
			}
			_, _ = fmt.Fprintln(out)

			result, err := app.AnalysisCLI.Upload(ctx, args[0], func(update analysisdto.ProgressUpdate) {
				if update.Failed {
					_, _ = fmt.Fprintf(out, "[%3d%%] failed: %s\n", update.Percent, update.Message)
					return
				}
				_, _ = fmt.Fprintf(out, "[%3d%%] %s\n", update.Percent, update.Label)
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "ATS score %d/100 for %s (resume %s)\n", result.ATSScore, result.FileName, result.ResumeID)
			_, _ = fmt.Fprintln(out, "run `resumedash results show` for the full report")
			return nil
		},
	}
}

func newResultsCmd(flags *globalFlags) *cobra.Command {
	results := &cobra.Command{Use: "results", Short: "Inspect the last analysis"}

	var raw bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the last analysis report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			report, ok, err := app.AnalysisCLI.Show(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no analysis yet; run `resumedash upload <file>`")
				return nil
			}
			if raw {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), report.Markdown)
				return nil
			}
			rendered, err := glamour.Render(report.Markdown, "dark")
			if err != nil {
				return fmt.Errorf("render report: %w", err)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	show.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal styling")

	var format, outPath string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the last analysis to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AnalysisCLI.Export(cmd.Context(), format, outPath)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", out.Format, out.Path)
			return nil
		},
	}
	export.Flags().StringVar(&format, "format", "json", "json|yaml|md|xlsx")
	export.Flags().StringVarP(&outPath, "out", "o", "", "output path (default <resume>-analysis.<format>)")

	results.AddCommand(show, export)
	return results
}

func newDoctorCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, backend reachability and the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out := cmd.OutOrStdout()

			_, _ = fmt.Fprintf(out, "state dir     %s\n", cfg.StateDir)
			_, _ = fmt.Fprintf(out, "backend url   %s\n", orUnset(cfg.BackendURL))
			_, _ = fmt.Fprintf(out, "identity url  %s\n", orUnset(cfg.IdentityURL))

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			health, err := app.AnalysisCLI.Health(ctx)
			if err != nil {
				_, _ = fmt.Fprintf(out, "backend       unreachable: %v\n", err)
			} else {
				_, _ = fmt.Fprintf(out, "backend       %s (%s)\n", health.Status, health.Elapsed.Round(time.Millisecond))
			}

			session, ok, err := app.AuthCLI.CurrentSession(cmd.Context())
			switch {
			case err != nil:
				_, _ = fmt.Fprintf(out, "session       error: %v\n", err)
			case !ok:
				_, _ = fmt.Fprintln(out, "session       none")
			default:
				_, _ = fmt.Fprintf(out, "session       %s until %s\n", session.Email, session.ExpiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}

func orUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
				return fmt.Errorf("create state dir: %w", err)
			}
			logger, logFile, err := logging.NewFile(cfg.LogPath, logging.ParseLevel(cfg.LogLevel))
			if err != nil {
				return err
			}
			defer logFile.Close()

			app, err := bootstrap.New(cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			startDir, err := os.Getwd()
			if err != nil {
				startDir = "."
			}
			return bootstrap.RunTUI(startDir, app)
		},
	}
}
