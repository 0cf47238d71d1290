package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/ginext"

	"summitapi/cmd/middleware"
	"summitapi/internal/dto"
	"summitapi/internal/service"
)

const rateLimitWindow = 15 * time.Minute

type Routers struct {
	Service service.Service
	Env     string
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(middleware.SecurityHeaders())
	app.Use(cors.Default())

	generalLimit := middleware.NewRateLimiter(100, rateLimitWindow, dto.MsgTooManyRequests)
	submissionLimit := middleware.NewRateLimiter(5, rateLimitWindow, dto.MsgTooManySubmission)
	retrievalLimit := middleware.NewRateLimiter(200, rateLimitWindow, dto.MsgTooManyRequests)

	app.GET("/health", func(c *ginext.Context) {
		c.JSON(200, gin.H{
			"success":     true,
			"message":     "Event registration API is running",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": r.Env,
		})
	})

	apiGroup := app.Group("/api")
	apiGroup.Use(generalLimit.Middleware())

	apiGroup.GET("", apiDocs)

	apiGroup.POST("/registrations",
		submissionLimit.Middleware(),
		middleware.SanitizeInput(),
		r.Service.CreateRegistration)
	apiGroup.GET("/registrations",
		retrievalLimit.Middleware(),
		r.Service.GetAllRegistrations)
	apiGroup.GET("/registrations/stats",
		retrievalLimit.Middleware(),
		r.Service.GetRegistrationStats)
	apiGroup.GET("/registrations/:id",
		retrievalLimit.Middleware(),
		r.Service.GetRegistrationByID)
	apiGroup.PUT("/registrations/:id/status",
		middleware.SanitizeInput(),
		r.Service.UpdateRegistrationStatus)
	apiGroup.DELETE("/registrations/:id",
		r.Service.DeleteRegistration)

	app.NoRoute(func(c *ginext.Context) {
		c.JSON(404, dto.Response{
			Success: false,
			Message: "API endpoint not found",
			Data: gin.H{
				"availableEndpoints": gin.H{
					"health":        "GET /health",
					"api_docs":      "GET /api",
					"registrations": "GET /api/registrations",
				},
			},
		})
	})

	return app
}

func apiDocs(c *ginext.Context) {
	c.JSON(200, dto.Response{
		Success: true,
		Message: "Event registration API",
		Data: gin.H{
			"version": "1.0.0",
			"endpoints": gin.H{
				"registrations": gin.H{
					"POST /api/registrations":           "Create a new registration",
					"GET /api/registrations":            "Get all registrations with filtering and pagination",
					"GET /api/registrations/stats":      "Get registration statistics",
					"GET /api/registrations/:id":        "Get a single registration by ID",
					"PUT /api/registrations/:id/status": "Update registration status",
					"DELETE /api/registrations/:id":     "Permanently delete a registration",
				},
				"health": gin.H{
					"GET /health": "Health check endpoint",
				},
			},
			"queryParameters": gin.H{
				"GET /api/registrations": gin.H{
					"page":             "Page number for pagination (default: 1)",
					"limit":            "Number of records per page (default: 10, max: 100)",
					"registrationType": "Filter by registration type (anchor-partner, series-venture, attend)",
					"status":           "Filter by status (pending, reviewed, approved, rejected)",
					"sponsorshipTier":  "Filter by sponsorship tier (tier1, tier2, community, demoday)",
					"ventureStage":     "Filter by venture stage (idea, prototype, pilot, early-revenue, scaling)",
					"fundingNeeds":     "Filter by funding needs (under-5m, 5m-10m, 10m-25m, 25m-50m, over-50m)",
					"startDate":        "Filter by start date (YYYY-MM-DD)",
					"endDate":          "Filter by end date (YYYY-MM-DD)",
					"search":           "Search in name, email, organization, phone, or location",
				},
			},
		},
	})
}
