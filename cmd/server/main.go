package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hongjun500/codepair-go/internal/collab"
	"github.com/hongjun500/codepair-go/internal/config"
	"github.com/hongjun500/codepair-go/internal/httpapi"
	"github.com/hongjun500/codepair-go/internal/observe"
	"github.com/hongjun500/codepair-go/internal/room"
	"github.com/hongjun500/codepair-go/internal/session"
	"github.com/hongjun500/codepair-go/internal/transport"
	"github.com/hongjun500/codepair-go/pkg/logger"
)

func main() {
	log := logger.L().Sugar()

	cfg, err := config.Load(os.Getenv("CODEPAIR_CONFIG"))
	if err != nil {
		log.Fatalw("config_load_failed", "err", err)
	}
	logger.SetLevel(cfg.LogLevel)

	registry := session.NewRegistry()
	broker := room.NewBroker()
	engine := collab.NewEngine(registry, broker, cfg.GraceInterval)
	defer engine.Reaper().Stop()

	gateway := transport.NewCollabGateway(engine)
	ws := &transport.WebSocketServer{}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	httpapi.New(registry, cfg.BaseURL).Register(e)
	e.GET("/ws", echo.WrapHandler(ws.Handler(gateway, transport.Options{
		OutBuffer:    cfg.OutBuffer,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxFrameSize: cfg.MaxFrameSize,
	})))

	go func() {
		if err := observe.StartHTTP(cfg.MetricsAddr); err != nil {
			log.Warnw("metrics_server_exit", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	log.Infow("server_start", "addr", cfg.HTTPAddr, "metrics", cfg.MetricsAddr)
	if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalw("server_exit", "err", err)
	}
}
