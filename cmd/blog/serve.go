package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	blog "github.com/goliatone/go-blog"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(a *app, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build once, serve the artifacts and rebuild when posts change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "listen address")
	flags.Bool("watch", true, "rebuild when the content directory changes")
	_ = v.BindPFlag("server.addr", flags.Lookup("addr"))
	_ = v.BindPFlag("server.watch", flags.Lookup("watch"))
	return cmd
}

func serve(ctx context.Context, cfg blog.Config) error {
	module, err := blog.New(cfg)
	if err != nil {
		return err
	}
	logger := module.Logger("blog.cli")

	if _, err := module.Build(ctx, blog.BuildSiteCommand{Trigger: blog.TriggerServe}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           module.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("cli.serve.listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Server.Watch {
		group.Go(func() error {
			return module.Watch(ctx)
		})
	}
	return group.Wait()
}
