// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	polygon "github.com/VNOI-Admin/polygon-bot"
	"github.com/VNOI-Admin/polygon-bot/internal/config"
	"github.com/VNOI-Admin/polygon-bot/internal/logging"
)

const httpTimeout = 2 * time.Minute

// rootFlags are the persistent flags. Empty values leave the loaded
// configuration untouched.
type rootFlags struct {
	configPath string
	envFile    string
	endpoint   string
	logLevel   string
	logFormat  string
}

func (f *rootFlags) apply(cfg *config.Config) {
	if len(f.endpoint) > 0 {
		cfg.Endpoint = f.endpoint
	}

	if len(f.logLevel) > 0 {
		cfg.LogLevel = f.logLevel
	}

	if len(f.logFormat) > 0 {
		cfg.LogFormat = f.logFormat
	}
}

// app is shared by every subcommand. client is logged in by the time a
// subcommand runs.
type app struct {
	flags  rootFlags
	client *polygon.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "polygonctl",
		Short:        "polygonctl manages problems and contests on Polygon",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "path to a TOML config file")
	pf.StringVar(&a.flags.envFile, "env-file", ".env", "path to a .env file with credentials")
	pf.StringVar(&a.flags.endpoint, "endpoint", "", "Polygon base URL (default "+polygon.DefaultEndpoint+")")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		a.loginCmd(),
		a.contestsCmd(),
		a.contestInfoCmd(),
		a.contestProblemsCmd(),
		a.problemsCmd(),
		a.testsCmd(),
		a.linkCmd(),
		a.packageLinkCmd(),
		a.downloadCmd(),
		a.downloadContestCmd(),
		a.createPackageCmd(),
		a.giveAccessCmd(),
		a.uploadSolutionCmd(),
		a.uploadTestCmd(),
		a.commitCmd(),
		a.workingCopiesCmd(),
		a.discardCmd(),
	)

	return root
}

// setup loads the configuration, builds the logger and logs in.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath, a.flags.envFile)
	if err != nil {
		return err
	}

	a.flags.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.SetContext(logging.WithLogger(ctx, log))

	hc, err := polygon.NewHTTPClient()
	if err != nil {
		return err
	}

	hc.Timeout = httpTimeout

	c, err := polygon.New(hc, cfg.Endpoint, cfg.Credentials())
	if err != nil {
		return err
	}

	c.SetLogger(log)

	ok, err := c.Login()
	if err != nil {
		return errors.Wrap(err, "failed to log in")
	}

	if !ok {
		return errors.Errorf("polygon rejected the login for %s", cfg.Username)
	}

	a.client = c

	return nil
}
