package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	bfhl "github.com/goliatone/go-bfhl"
	"github.com/goliatone/go-bfhl/pkg/controller"
	"github.com/goliatone/go-bfhl/pkg/renderers/web"
	"github.com/goliatone/go-bfhl/pkg/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, variant string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form as a web page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("theme") {
				a.cfg.Server.Theme = variant
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			return a.serve(cmd.Context(), nil)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&variant, "theme", "", "page theme variant: light or dark")
	return cmd
}

func (a *app) serve(ctx context.Context, ready func(net.Addr)) error {
	c, err := a.client()
	if err != nil {
		return err
	}

	sel, err := web.NewManifestSelector(web.DefaultManifest()).Select(web.DefaultThemeName, a.cfg.Server.Theme)
	if err != nil {
		return err
	}
	renderer, err := web.New(
		web.WithTheme(web.RendererConfig(sel)),
		web.WithLogger(a.logger.With().Str("component", "web").Logger()),
	)
	if err != nil {
		return err
	}

	srv, err := server.New(
		bfhl.ControllerFactory(c, controller.WithLogger(a.logger.With().Str("component", "controller").Logger())),
		server.WithRenderer(renderer),
		server.WithSessionTTL(a.cfg.SessionTTL()),
		server.WithLogger(a.logger.With().Str("component", "server").Logger()),
	)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Str("addr", ln.Addr().String()).Str("endpoint", c.Endpoint()).Msg("serving form")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return srv.Sessions().Run(gctx, 0)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGrace())
		defer cancel()
		a.logger.Info().Msg("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	if ready != nil {
		ready(ln.Addr())
	}
	return g.Wait()
}
