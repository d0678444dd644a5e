package api

import (
	"context"
	"net/http"
	"sync"

	"cart-shop/config"
	"cart-shop/libs"
	"cart-shop/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	app     *routes.App
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.LoadConfig()
		logger, err := libs.NewLogger(cfg.AppEnv)
		if err != nil {
			initErr = err
			return
		}

		app, initErr = routes.NewApp(context.Background(), cfg, logger)
		if initErr != nil {
			logger.Error("failed to build application", zap.Error(initErr))
		}
	})
}

func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		http.Error(w, `{"success":false,"message":"service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	app.Router.ServeHTTP(w, r)
}
