package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/soorihai2/ssksilks-sub001/internal/config"
	"github.com/soorihai2/ssksilks-sub001/internal/httpserver"
	"github.com/soorihai2/ssksilks-sub001/internal/notify"
	customerrepo "github.com/soorihai2/ssksilks-sub001/internal/repository/customer"
	orderrepo "github.com/soorihai2/ssksilks-sub001/internal/repository/order"
	settingsrepo "github.com/soorihai2/ssksilks-sub001/internal/repository/settings"
	customersvc "github.com/soorihai2/ssksilks-sub001/internal/service/customer"
	ordersvc "github.com/soorihai2/ssksilks-sub001/internal/service/order"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.FromEnv()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	orderRepo, err := orderrepo.NewJSONFile(cfg.DataDir)
	if err != nil {
		logger.WithError(err).Fatal("open orders store")
	}
	customerRepo, err := customerrepo.NewJSONFile(cfg.DataDir)
	if err != nil {
		logger.WithError(err).Fatal("open customers store")
	}
	settingsRepo := settingsrepo.NewJSONFile(cfg.DataDir)

	dispatcher := notify.NewSMTP(settingsRepo, logger)
	customerService := customersvc.New(customerRepo)
	orderService := ordersvc.New(orderRepo, customerService, settingsRepo, dispatcher, logger, ordersvc.Options{
		AllowTestOrders: cfg.AllowTestOrders,
		GatewayBaseURL:  cfg.GatewayBaseURL,
		GatewayTimeout:  cfg.GatewayTimeout,
	})

	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Orders:      orderService,
		Settings:    settingsRepo,
		AdminKey:    cfg.AdminKey,
		CORSOrigins: cfg.CORSOrigins,
	})

	rootCtx, stopPurge := context.WithCancel(context.Background())
	go purgeLoop(rootCtx, orderService, cfg.PurgeInterval, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}
	stopPurge()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
}

// purgeLoop periodically removes orders whose payment has been failed past
// the retention window.
func purgeLoop(ctx context.Context, svc *ordersvc.Service, interval time.Duration, logger logrus.FieldLogger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.PurgeFailed(ctx); err != nil {
				logger.WithError(err).Warn("failed-order purge")
			}
		}
	}
}
