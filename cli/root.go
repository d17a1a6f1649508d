// Package cli implements the storefront command line client. Commands are
// thin glue over the SDK packages; everything stateful lives behind the file
// credential store so sessions survive between invocations.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jovincart/storefront/config"
	"github.com/jovincart/storefront/credential"
	"github.com/jovincart/storefront/gateway"
	"github.com/jovincart/storefront/guard"
	"github.com/jovincart/storefront/logger"
	"github.com/jovincart/storefront/session"
	"github.com/jovincart/storefront/token"
)

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Storefront client",
	Long:          "storefront drives a storefront backend from the terminal: browse the catalog, manage a cart, check out, and review orders.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// app bundles the wired SDK for one command invocation.
type app struct {
	cfg     config.Client
	store   credential.Store
	client  *gateway.Client
	session *session.Manager
	log     *zap.Logger
}

func newApp() *app {
	cfg := config.LoadClient()
	log := logger.Get()

	store := credential.NewFileStore(cfg.CredentialFile)
	client := gateway.NewClient(cfg.BackendURL, cfg.HTTPTimeout,
		gateway.WithTokenSource(gateway.StoreTokenSource{Store: store}),
		gateway.WithLogger(log),
	)

	mgr := session.NewManager(store, client, log)
	mgr.Initialize()

	return &app{
		cfg:     cfg,
		store:   store,
		client:  client,
		session: mgr,
		log:     log,
	}
}

// requireUser enforces a live login and returns the acting user id.
func (a *app) requireUser(role token.Role) (string, error) {
	if d := guard.Authorize(a.session, role); !d.Allowed {
		if d.Redirect == guard.UnauthorizedPage {
			return "", errors.New("this command needs an admin account")
		}
		return "", errors.New("not logged in, run: storefront login")
	}
	userID, ok := a.session.UserID()
	if !ok {
		return "", errors.New("not logged in, run: storefront login")
	}
	return userID, nil
}

// cents renders an integer cent amount as dollars.
func cents(v int64) string {
	return fmt.Sprintf("$%d.%02d", v/100, v%100)
}
