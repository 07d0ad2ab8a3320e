package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/pos/internal/config"
	"github.com/RoyceAzure/lab/pos/internal/logger"
	"github.com/RoyceAzure/lab/pos/internal/stubserver"
	"github.com/prometheus/client_golang/prometheus"
)

// 本地測試用的 POS 後端, 資料只存在記憶體
func main() {
	cf := config.GetConfig()

	l, closer, err := logger.New(logger.Options{
		Module: "pos-stub",
		Level:  cf.LogLevel,
		Pretty: cf.LogPretty,
		File:   cf.LogFile,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	h := stubserver.NewHandler(stubserver.NewStore(stubserver.DefaultProducts()))
	r := stubserver.SetupRouter(h, stubserver.RouterOptions{
		Logger:    l,
		Registry:  prometheus.NewRegistry(),
		PayRatePS: cf.StubPayRatePS,
	})

	srv := &http.Server{
		Addr:              cf.StubAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutdownCompleted := make(chan struct{}, 1)
	go func() {
		<-sigChan
		l.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("server shutdown error")
		}
		shutdownCompleted <- struct{}{}
	}()

	l.Info().Str("addr", srv.Addr).Msg("stub server starting")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		l.Fatal().Err(err).Msg("server error")
	}
	<-shutdownCompleted
	l.Info().Msg("server stopped")
}
