package server

import (
	"net/http"

	handler "stall-allocation/services/allocation/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(service handler.AllocationServiceInterface, streamer handler.SessionStreamer, operatorKey string) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	allocationHandler := handler.NewAllocationHandler(service, streamer)
	operator := OperatorOnly(operatorKey)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sessions := router.Group("/sessions")
	{
		sessions.POST("", operator, allocationHandler.CreateSessionHandler)
		sessions.GET("", allocationHandler.ListSessionsHandler)
		sessions.GET("/:session_id", allocationHandler.GetSessionHandler)
		sessions.GET("/:session_id/stream", allocationHandler.StreamHandler)

		sessions.POST("/:session_id/bids", allocationHandler.PlaceBidHandler)
		sessions.GET("/:session_id/bids", allocationHandler.GetBidsHandler)

		sessions.POST("/:session_id/participants", allocationHandler.RegisterHandler)
		sessions.GET("/:session_id/participants", allocationHandler.GetParticipantsHandler)
		sessions.GET("/:session_id/participants/:applicant_id", allocationHandler.GetParticipantHandler)
		sessions.DELETE("/:session_id/participants/:applicant_id", allocationHandler.WithdrawHandler)

		sessions.GET("/:session_id/winner", allocationHandler.GetWinnerHandler)

		sessions.POST("/:session_id/extend", operator, allocationHandler.ExtendHandler)
		sessions.POST("/:session_id/cancel", operator, allocationHandler.CancelHandler)
	}

	applicants := router.Group("/applicants")
	{
		applicants.GET("/:applicant_id/registrations", allocationHandler.GetApplicantRegistrationsHandler)
	}

	stalls := router.Group("/stalls")
	{
		stalls.GET("/:stall_id", allocationHandler.GetStallHandler)
	}

	return router
}
