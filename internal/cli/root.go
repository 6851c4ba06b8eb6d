// Package cli implements the bookreview commands. Commands are the
// pages of the application: they call the client library and render
// results, and hold no session or protocol logic of their own.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookreview/internal/api"
	"bookreview/internal/bookclient"
	"bookreview/internal/config"
	"bookreview/internal/reviewclient"
	"bookreview/internal/session"
	"bookreview/internal/snapshot"
	"bookreview/internal/userclient"
	"bookreview/internal/util"
)

// App bundles the client stack composed once at startup and shared by
// every command.
type App struct {
	Config    config.FileConfig
	Store     session.CredentialStore
	Sessions  *session.Manager
	Gateway   *api.Client
	Books     *bookclient.Client
	Reviews   *reviewclient.Client
	Users     *userclient.Client
	Snapshots *snapshot.Store
}

var (
	cfgPath string
	app     *App
)

var rootCmd = &cobra.Command{
	Use:           "bookreview",
	Short:         "Browse books and manage reviews from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil && app.Snapshots != nil {
			app.Snapshots.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.yaml")
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(booksCmd, reviewsCmd, profileCmd)
}

// Execute runs the CLI and maps the error taxonomy to terminal output.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	switch {
	case api.IsAuthRequired(err):
		fmt.Fprintln(os.Stderr, "Error: please log in first (bookreview login)")
	case api.IsNotFound(err):
		fmt.Fprintf(os.Stderr, "Error: not found: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func newApp(cmd *cobra.Command) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	util.InitLogger(cfg.LogLevel)

	var store session.CredentialStore
	switch cfg.SessionBackend {
	case config.BackendRedis:
		store = session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
	default:
		store, err = session.NewFileStore(cfg.StateDir)
		if err != nil {
			return nil, err
		}
	}

	sessions := session.NewManager(store)
	if err := sessions.Initialize(); err != nil {
		return nil, err
	}

	timeout, err := config.ParseRequestTimeout(cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}

	gw := api.New(api.Config{
		BaseURL:  cfg.APIBaseURL,
		Timeout:  timeout,
		Session:  sessions,
		Fallback: store,
		OnAuthExpired: func() {
			// The login command is the unauthenticated entry point; being
			// already there means nothing to navigate to.
			if cmd.Name() != loginCmd.Name() {
				fmt.Fprintln(os.Stderr, "Session expired. Run 'bookreview login' to sign in again.")
			}
		},
	})

	snaps, err := snapshot.Open(cfg.SnapshotPath)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Store:     store,
		Sessions:  sessions,
		Gateway:   gw,
		Books:     bookclient.New(gw),
		Reviews:   reviewclient.New(gw),
		Users:     userclient.New(gw),
		Snapshots: snaps,
	}, nil
}

// confirm asks for explicit confirmation on stdin unless assumeYes.
func confirm(prompt string, assumeYes bool) bool {
	if assumeYes {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}
