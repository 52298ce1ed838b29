package routes

import (
	"bizdirectory/cmd/internal/http/handler"
	"bizdirectory/cmd/internal/metrics"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Companies *handler.DefaultCompanyRoute
	Addresses *handler.DefaultAddressRoute
	Rates     *handler.DefaultRateRoute
	Search    *handler.DefaultSearchRoute
	Users     *handler.DefaultUserRoute
	WebSocket *handler.DefaultWSRoute
}

// Register mounts the directory API on e. Mutating routes go through guard,
// the websocket connect route through wsAuth.
func Register(e *echo.Echo, h *Handlers, guard, wsAuth echo.MiddlewareFunc) {
	api := e.Group("/api")

	// Addresses
	api.GET("/Addresses", h.Addresses.GetAddresses)
	api.GET("/Addresses/:id", h.Addresses.GetAddress)
	api.POST("/Addresses", h.Addresses.CreateAddress, guard)
	api.PUT("/Addresses/:id", h.Addresses.UpdateAddress, guard)
	api.DELETE("/Addresses/:id", h.Addresses.DeleteAddress, guard)

	// Companies
	api.GET("/Companies", h.Companies.GetCompanies)
	api.GET("/Companies/providers", h.Companies.GetProviders)
	api.GET("/Companies/:id", h.Companies.GetCompany)
	api.GET("/Companies/:id/providers", h.Companies.GetCompanyProviders)
	api.GET("/Companies/:id/clients", h.Companies.GetProviderClients)
	api.GET("/Companies/:id/ratings", h.Companies.GetCompanyRatings)
	api.POST("/Companies", h.Companies.CreateCompany, guard)
	api.PUT("/Companies/:id", h.Companies.UpdateCompany, guard)
	api.DELETE("/Companies/:id", h.Companies.DeleteCompany, guard)
	api.POST("/Companies/:id/providers/:providerId", h.Companies.AddProvider, guard)
	api.DELETE("/Companies/:id/providers/:providerId", h.Companies.RemoveProvider, guard)
	api.POST("/Companies/:id/logo", h.Companies.UploadLogo, guard)

	// Rates
	api.GET("/Rates", h.Rates.GetRates)
	api.GET("/Rates/:id", h.Rates.GetRate)
	api.GET("/Rates/company/:companyId", h.Rates.GetRatesByCompany)
	api.GET("/Rates/user/:userId", h.Rates.GetRatesByUser)
	api.POST("/Rates", h.Rates.CreateRate, guard)
	api.PUT("/Rates/:id", h.Rates.UpdateRate, guard)
	api.DELETE("/Rates/:id", h.Rates.DeleteRate, guard)

	// Search
	api.GET("/Search/companies", h.Search.SearchCompanies)
	api.GET("/Search/nearby", h.Search.GetNearbyCompanies)

	// Users
	api.GET("/Users", h.Users.GetUsers)
	api.GET("/Users/:id", h.Users.GetUser)
	api.GET("/Users/:id/rates", h.Users.GetUserRates)
	api.POST("/Users", h.Users.CreateUser)
	api.POST("/Users/login", h.Users.Login)
	api.PUT("/Users/:id", h.Users.UpdateUser, guard)
	api.DELETE("/Users/:id", h.Users.DeleteUser, guard)

	// API Gateway websocket integration
	if h.WebSocket != nil {
		e.POST("/ws/connect", h.WebSocket.HandleConnect, wsAuth)
		e.POST("/ws/disconnect", h.WebSocket.HandleDisconnect)
		e.POST("/ws/message", h.WebSocket.HandleMessage)
	}

	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
