package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mugiliam/hatchworkbench/internal/config"
	"github.com/mugiliam/hatchworkbench/internal/dataimport"
	"github.com/mugiliam/hatchworkbench/internal/logtrace"
	"github.com/mugiliam/hatchworkbench/internal/server"
	"github.com/mugiliam/hatchworkbench/internal/session"
	"github.com/mugiliam/hatchworkbench/internal/workspace"
	"github.com/mugiliam/hatchworkbench/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	configFile string
	listen     string
	logLevel   string
}

type importOptions struct {
	varname string
	header  bool
	sep     string
	quote   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "workbenchd",
		Short:         "Serve the workspace view and data import endpoints of an interpreter session",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), c)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to a TOML or YAML configuration file")
	flags.StringVar(&opts.listen, "listen", "", "Listen address, overrides the configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level, overrides the configuration file")

	cmd.AddCommand(newImportCommand(opts))
	return cmd
}

// newImportCommand prints the import code for a local file without talking
// to a session.
func newImportCommand(rootOpts *options) *cobra.Command {
	opts := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import-command FILE",
		Short: "Print the console code that imports FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			synth, err := newSynthesizer(c)
			if err != nil {
				return err
			}
			ic, err := synth.ImportCode(cmd.Context(), types.ImportRequest{
				FormatProfile: types.FormatProfile{Header: opts.header, Sep: opts.sep, Quote: opts.quote},
				File:          args[0],
				Varname:       opts.varname,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ic.Code)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.varname, "varname", "", "Variable to import into, defaults to the file name")
	flags.BoolVar(&opts.header, "header", true, "The first line holds column names")
	flags.StringVar(&opts.sep, "sep", ",", "Field separator")
	flags.StringVar(&opts.quote, "quote", "\"", "Quote characters")
	return cmd
}

func loadConfig(opts *options) (*config.ServerConfig, error) {
	c := config.Default()
	if opts.configFile != "" {
		loaded, err := config.LoadConfig(opts.configFile)
		if err != nil {
			return nil, err
		}
		c = loaded
	}
	if opts.listen != "" {
		c.ListenAddress = opts.listen
	}
	if opts.logLevel != "" {
		c.LogLevel = opts.logLevel
	}
	config.SetConfig(c)
	logtrace.Setup(c.LogLevel, c.LogFormat)
	return c, nil
}

func newSynthesizer(c *config.ServerConfig) (*dataimport.Synthesizer, error) {
	profiles := c.BaselineProfiles()
	if len(profiles) == 0 {
		return dataimport.NewSynthesizer(dataimport.DefaultBaselines()), nil
	}
	baselines, err := dataimport.NewBaselines(profiles...)
	if err != nil {
		return nil, err
	}
	return dataimport.NewSynthesizer(baselines), nil
}

type workbench struct {
	httpServer *http.Server
	syncer     *workspace.Syncer
	feed       *workspace.Feed
}

// newWorkbench wires the session client, the workspace cache and the HTTP
// server. Shutting the HTTP server down closes the feed so open feed streams
// end instead of holding the shutdown.
func newWorkbench(c *config.ServerConfig) (*workbench, error) {
	synth, err := newSynthesizer(c)
	if err != nil {
		return nil, err
	}
	client := session.NewClient(session.Options{
		URL:        c.Session.URL,
		ClientID:   c.Session.ClientID,
		Timeout:    c.Session.Timeout.Duration,
		RetryCount: c.Session.RetryCount,
	})
	feed := workspace.NewFeed()
	cache := workspace.NewReconciler(feed)
	syncer := workspace.NewSyncer(client, cache, feed)

	s, err := server.CreateNewServer(server.Deps{
		Cache:        cache,
		Syncer:       syncer,
		Feed:         feed,
		Synthesizer:  synth,
		Console:      client,
		Downloader:   client,
		Workspace:    client,
		Spreadsheets: client,
	})
	if err != nil {
		feed.Close()
		return nil, err
	}
	s.MountHandlers()

	httpServer := &http.Server{
		Addr:              c.ListenAddress,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer.RegisterOnShutdown(func() {
		feed.Close()
	})
	return &workbench{httpServer: httpServer, syncer: syncer, feed: feed}, nil
}

func serve(ctx context.Context, c *config.ServerConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	wb, err := newWorkbench(c)
	if err != nil {
		return err
	}
	defer wb.feed.Close()

	if err := wb.syncer.OnActivate(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("initial workspace listing failed")
	}

	errCh := make(chan error, 1)
	go func() {
		log.Ctx(ctx).Info().Str("address", c.ListenAddress).Str("session", c.Session.URL).Msg("workbench server listening")
		errCh <- wb.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Ctx(ctx).Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return wb.httpServer.Shutdown(shutdownCtx)
}
