package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"attackmode/internal/auth"
	"attackmode/internal/httpapi"
)

type ServeCmd struct {
	Addr string `help:"Listen address, overrides config." placeholder:"HOST:PORT"`
}

func (c *ServeCmd) Run(ctx *Context) error {
	if err := ctx.Config.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	defer ctx.Store.Close()

	addr := ctx.Config.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	sessions := auth.NewSessions(ctx.Config.SessionSecret, ctx.Config.SessionTTL())
	server := httpapi.NewServer(ctx.Store, sessions, ctx.Config.Location(), ctx.Log)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		ctx.Log.Info("server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctx.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
