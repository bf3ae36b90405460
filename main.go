package main

import (
	"time"

	"art-catalog-app/config"
	"art-catalog-app/database"
	captureapi "art-catalog-app/internal/api/capture"
	reviewapi "art-catalog-app/internal/api/review"
	routes "art-catalog-app/internal/app/http"
	applog "art-catalog-app/internal/app/log"
	"art-catalog-app/internal/audit"
	"art-catalog-app/internal/domain/geo"
	"art-catalog-app/internal/domain/moderation"
	"art-catalog-app/internal/domain/session"
	"art-catalog-app/internal/upstream"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	logger := applog.New(config.ENV)
	db := database.InitDB()

	catalog := upstream.NewClient(config.UPSTREAM_API_URL, config.UPSTREAM_API_TOKEN, logger)
	auditLog := audit.NewLog(db, logger)

	// state containers: built once here, torn down with the process
	queue := moderation.NewQueue(catalog, auditLog, logger)
	bridge := session.NewBridge(session.NewMemoryStore(), session.NewGormSnapshotStore(db), logger)
	resolvers := geo.NewResolverSet()

	reviewHandler := reviewapi.NewHandler(queue, logger)
	captureHandler := captureapi.NewHandler(bridge, resolvers, catalog, logger)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, reviewHandler, captureHandler)

	logger.Info().Str("port", config.PORT).Msg("moderation service listening")
	r.Run(":" + config.PORT)
}
