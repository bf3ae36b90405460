package routes

import (
	captureapi "art-catalog-app/internal/api/capture"
	reviewapi "art-catalog-app/internal/api/review"
	"art-catalog-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, review *reviewapi.Handler, capture *captureapi.Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Contributor capture flow
	capt := r.Group("/capture")
	capt.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())
	capt.GET("/session", capture.GetSession)
	capt.DELETE("/session", capture.ClearSession)
	capt.POST("/session/photos", capture.AddPhoto)
	capt.POST("/session/location", capture.ReportLocation)
	capt.GET("/nearby", capture.Nearby)
	capt.POST("/submit", capture.Submit)
	capt.POST("/artworks/:id/edits", capture.SubmitEdits)

	// Reviewer queue
	rev := r.Group("/review")
	rev.Use(middleware.AuthMiddleware(), middleware.RequireReviewer(), middleware.SanitizeAndCleanInputMiddleware())
	rev.GET("/queue", review.GetQueue)
	rev.POST("/reload", review.Reload)
	rev.GET("/statistics", review.GetStatistics)

	rev.POST("/submissions/:id/approve", review.ApproveSubmission)
	rev.POST("/submissions/:id/reject", review.RejectSubmission)
	rev.POST("/submissions/:id/flag", review.FlagSubmission)

	rev.POST("/artwork-edits/:id/approve", review.ResolveArtworkEdit(true))
	rev.POST("/artwork-edits/:id/reject", review.ResolveArtworkEdit(false))

	rev.POST("/artist-edits/:id/approve", review.ResolveArtistEdit(true))
	rev.POST("/artist-edits/:id/reject", review.ResolveArtistEdit(false))

	rev.POST("/feedback/:id/review", review.ReviewFeedback)
}
