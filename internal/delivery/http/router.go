package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventconsole/internal/delivery/http/controllers"
	"eventconsole/internal/delivery/http/middleware"
	"eventconsole/internal/domain"
)

// Controllers bundles every controller the router wires up.
type Controllers struct {
	Auth         *controllers.AuthController
	Account      *controllers.AccountController
	Event        *controllers.EventController
	Registration *controllers.RegistrationController
	Sales        *controllers.SalesController
	Asset        *controllers.AssetController
	Message      *controllers.MessageController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Events
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events", auth(c.Event.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Event.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("POST /events/{eventID}/archive", auth(c.Event.ArchiveEvent))
	mux.HandleFunc("POST /events/{eventID}/status", auth(c.Event.SetStatus))

	// Ticket tiers
	mux.HandleFunc("POST /events/{eventID}/tiers", auth(c.Event.AddTier))
	mux.HandleFunc("PATCH /events/{eventID}/tiers/{tierID}", auth(c.Event.UpdateTier))
	mux.HandleFunc("DELETE /events/{eventID}/tiers/{tierID}", auth(c.Event.RemoveTier))

	// Event assets
	mux.HandleFunc("POST /events/{eventID}/poster", auth(c.Asset.UploadPoster))
	mux.HandleFunc("POST /events/{eventID}/seatmap", auth(c.Asset.UploadSeatMap))

	// Registrations and check-in
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(c.Registration.RecordPurchase))
	mux.HandleFunc("GET /events/{eventID}/registrations", auth(c.Registration.ListRegistrations))
	mux.HandleFunc("POST /events/{eventID}/checkin", auth(c.Registration.CheckIn))

	// Sales
	mux.HandleFunc("GET /events/{eventID}/sales", auth(c.Sales.EventSummary))
	mux.HandleFunc("GET /sales", admin(c.Sales.GlobalSummary))

	// Messaging
	mux.HandleFunc("POST /events/{eventID}/announcements", auth(c.Message.SendAnnouncement))
	mux.HandleFunc("GET /events/{eventID}/conversations", auth(c.Message.ListConversations))
	mux.HandleFunc("GET /conversations/{conversationID}/messages", auth(c.Message.ListMessages))

	// Accounts (admin only)
	mux.HandleFunc("POST /accounts", admin(c.Account.CreateAccount))
	mux.HandleFunc("GET /accounts", admin(c.Account.ListAccounts))
	mux.HandleFunc("GET /accounts/{accountID}", admin(c.Account.GetAccount))
	mux.HandleFunc("PATCH /accounts/{accountID}", admin(c.Account.UpdateAccount))
	mux.HandleFunc("DELETE /accounts/{accountID}", admin(c.Account.DeleteAccount))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
