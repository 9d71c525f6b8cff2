package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes configures all API routes, middleware, and error handlers
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	// Set custom error handler for consistent JSON responses
	e.HTTPErrorHandler = NotFoundJSON()

	// Apply global middleware
	e.Use(SetJSONContentType) // Ensure all responses are JSON
	e.Use(SetNoCacheHeaders)  // Prevent caching of API responses

	// Optional API key authentication
	if cfg.APIKey != "" {
		e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key", // Look for API key in X-API-Key header
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil // Simple string comparison
			},
		}))
	}

	// API v1 routes
	v1 := e.Group("/v1")
	v1.GET("/health", h.Health)                        // Health check endpoint
	v1.GET("/config", h.GetConfig)                     // Contract config record
	v1.GET("/pools", h.Pools)                          // Paginated pool listing
	v1.GET("/pools/:id/decimals/:denom", h.AssetDecimals) // Asset decimals lookup

	// Simulation endpoints with rate limiting; pricing is CPU-bound big-int
	// math, so one client must not monopolize it
	simGroup := v1.Group("")
	simGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(50),  // 50 requests per second per client
		Burst:     100,             // Allow burst of 100 requests
		ExpiresIn: 2 * time.Minute, // Rate limit window
	})))
	simGroup.POST("/simulate", h.Simulate)                           // Forward swap pricing
	simGroup.POST("/reverse-simulate", h.ReverseSimulate)            // Reverse swap pricing
	simGroup.POST("/simulate-chain", h.SimulateChain)                // Multi-hop forward pricing
	simGroup.POST("/reverse-simulate-chain", h.ReverseSimulateChain) // Multi-hop reverse pricing

	// Catch-all route for 404 responses
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}
