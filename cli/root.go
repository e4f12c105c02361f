// Package cli provides the journalctl command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"deltajournal-backend/app"
	"deltajournal-backend/config"
	"deltajournal-backend/logger"
	"deltajournal-backend/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// annotationPublic marks commands that run without signing in to the remote backend
const annotationPublic = "public"

type runtime struct {
	cfgFile string
	verbose bool
	asJSON  bool
	creds   *viper.Viper
	now     func() time.Time

	app *app.App
	ctx context.Context
}

func newRuntime() *runtime {
	return &runtime{creds: viper.New(), now: time.Now}
}

// newRootCommand builds the journalctl command tree. The caller closes rt once
// the command returns, whether or not it failed.
func newRootCommand(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:   "journalctl",
		Short: "Emotion journal command line",
		Long: `journalctl reads and writes the emotion journal from the terminal.

It uses the same backend selection as the server: a Postgres database when
DATABASE_URL and JOURNAL_ACCESS_KEY are set, local storage otherwise.`,
		SilenceUsage:      true,
		PersistentPreRunE: rt.open,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&rt.cfgFile, "config", "", "config file (default is ./deltajournal.yaml)")
	flags.BoolVarP(&rt.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVar(&rt.asJSON, "json", false, "print results as JSON")
	flags.String("email", "", "account email for the remote backend (env JOURNAL_EMAIL)")
	flags.String("password", "", "account password for the remote backend (env JOURNAL_PASSWORD)")

	_ = rt.creds.BindPFlag("email", flags.Lookup("email"))
	_ = rt.creds.BindPFlag("password", flags.Lookup("password"))
	_ = rt.creds.BindEnv("email", "JOURNAL_EMAIL")
	_ = rt.creds.BindEnv("password", "JOURNAL_PASSWORD")

	root.AddCommand(
		newEntriesCommand(rt),
		newProfileCommand(rt),
		newQuestsCommand(rt),
		newInsightCommand(rt),
		newTrendsCommand(rt),
		newReportCommand(rt),
		newStatsCommand(rt),
		newLeadCommand(rt),
	)
	return root
}

// Execute runs journalctl with os.Args
func Execute() error {
	rt := newRuntime()
	defer rt.close()
	return newRootCommand(rt).Execute()
}

func (rt *runtime) open(cmd *cobra.Command, args []string) error {
	logger.InitCLI(rt.verbose)
	config.LoadDotEnv()

	cfg, err := config.Load(rt.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	rt.app = a
	rt.ctx = ctx

	if !a.Data.IsRemote() || cmd.Annotations[annotationPublic] == "true" {
		return nil
	}
	return rt.signIn()
}

func (rt *runtime) signIn() error {
	email, password := rt.creds.GetString("email"), rt.creds.GetString("password")
	if email == "" || password == "" {
		return errors.New("remote backend requires --email and --password (or JOURNAL_EMAIL and JOURNAL_PASSWORD)")
	}

	resp, err := rt.app.Auth.SignInWithPassword(rt.ctx, email, password)
	if err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	rt.ctx = service.ContextWithSession(rt.ctx, resp.Session)
	logger.Debug("signed in", "email", email)
	return nil
}

func (rt *runtime) close() {
	if rt.app == nil {
		return
	}
	if session, ok := service.SessionFromContext(rt.ctx); ok && session != nil {
		if err := rt.app.Auth.SignOut(rt.ctx); err != nil {
			logger.Warn("sign out failed", "error", err)
		}
	}
	rt.app.Close()
	rt.app = nil
}

func (rt *runtime) data() service.DataService { return rt.app.Data }

// emitJSON writes v as indented JSON when --json is set and reports whether it did
func (rt *runtime) emitJSON(w io.Writer, v any) (bool, error) {
	if !rt.asJSON {
		return false, nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}
