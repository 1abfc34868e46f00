package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/xtding233/damage-coeff/internal/catalog"
	"github.com/xtding233/damage-coeff/internal/config"
	"github.com/xtding233/damage-coeff/internal/damage"
	"github.com/xtding233/damage-coeff/internal/pattern"
	"github.com/xtding233/damage-coeff/internal/server"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	slog.Info("config loaded", "path", cfgPath, "http", cfg.HTTPAddr, "grpc", cfg.GRPCAddr, "catalog", cfg.Catalog.Dir, "overlay", cfg.Catalog.Overlay)

	loader := catalog.NewLoader(cfg.Catalog.Dir)
	store, err := catalog.Open(loader, cfg.Catalog.Overlay)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	slog.Info("catalog loaded", "version", store.Version(), "enemies", len(store.Enemies()))

	random := damage.RandomCoeffConfig{Min: cfg.Defaults.RandomMin, Max: cfg.Defaults.RandomMax}
	book := pattern.NewBook(store, pattern.WithRandomDefault(random))
	srv := server.New(store, book, server.WithRandomDefaults(random.Min, random.Max))

	// bind both listeners before any goroutine starts, so a bad address
	// fails run without leaving a server behind
	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	var grpcLis net.Listener
	if cfg.GRPCAddr != "" {
		grpcLis, err = net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("grpc listen: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		slog.Info("starting http server", "addr", httpLis.Addr())
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})

	if grpcLis != nil {
		gs := grpc.NewServer()
		srv.RegisterGRPC(gs)
		g.Go(func() error {
			slog.Info("starting grpc server", "addr", grpcLis.Addr())
			if err := gs.Serve(grpcLis); err != nil {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			gs.GracefulStop()
			return nil
		})
	}

	if cfg.Catalog.WatchInterval > 0 {
		paths := loader.Paths().Watched(cfg.Catalog.Overlay)
		w := catalog.NewFileWatcher(paths, cfg.Catalog.WatchInterval, func(changed []string) {
			if err := store.Reload(loader, cfg.Catalog.Overlay); err != nil {
				slog.Error("catalog reload failed, keeping previous", "changed", changed, "err", err)
			}
		})
		g.Go(func() error { return w.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
