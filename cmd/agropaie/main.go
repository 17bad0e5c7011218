package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/agropaie/agropaie/cmd/agropaie/cli"
	"github.com/agropaie/agropaie/internal/api"
	"github.com/agropaie/agropaie/internal/app"
	"github.com/agropaie/agropaie/internal/console"
	"github.com/agropaie/agropaie/internal/selection"
	"github.com/agropaie/agropaie/internal/stubserver"
)

const demoToken = "demo-token"

func main() {
	_ = godotenv.Load()

	demo := flag.Bool("demo", false, "serve an in-process manager stub and point the console at it")
	flag.Parse()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	token := cfg.APIToken
	baseURL := cfg.APIBaseURL
	if *demo {
		addr, shutdown, err := serveStub(cfg.StubAddr, logger)
		if err != nil {
			logger.Error("start stub", slog.Any("error", err))
			os.Exit(1)
		}
		defer shutdown()
		baseURL = "http://" + addr
		token = demoToken
		logger.Info("demo stub listening", slog.String("addr", addr))
	}

	client, err := api.NewClient(baseURL, cfg.CallTimeout, api.StaticToken(token), logger)
	if err != nil {
		logger.Error("build api client", slog.Any("error", err))
		os.Exit(1)
	}

	cons := console.New(client, logger)
	defer cons.Close()

	runner := &cli.Runner{Console: cons, Bag: selection.NewBag(), Logger: logger, Out: os.Stdout}
	if err := runner.Run(ctx, flag.Args()); err != nil {
		switch {
		case errors.Is(err, api.ErrSessionExpired), errors.Is(err, api.ErrUnauthenticated):
			fmt.Fprintln(os.Stderr, "session expirée: reconnectez-vous (API_TOKEN)")
		default:
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func serveStub(addr string, logger *slog.Logger) (string, func(), error) {
	stub := stubserver.New(demoToken, logger)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, err
	}
	srv := &http.Server{Handler: stub.Router(), ReadTimeout: 15 * time.Second, WriteTimeout: 15 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("stub serve", slog.Any("error", err))
		}
	}()
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return ln.Addr().String(), shutdown, nil
}
