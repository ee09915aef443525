package routes

import (
	"net/http"

	"birthdaybook/internal/app"
	"birthdaybook/internal/handler"
	"birthdaybook/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	account := handler.NewAccountHandler(app.AccountService)
	birthday := handler.NewBirthdayHandler(app.BirthdayService)
	sharing := handler.NewSharingHandler(app.SharingService)

	// The authorization gate for protected routes
	requireAuth := middleware.RequireAuth(app.AuthService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Two-step login flow
	mux.HandleFunc("POST /auth/request", auth.Request)
	mux.HandleFunc("POST /auth/verify", auth.Verify)

	// Sharing links: the token in the path is the credential
	mux.HandleFunc("GET /sharing/links/{token}", sharing.Resolve)
	mux.HandleFunc("POST /sharing/links/{token}/birthdays", sharing.AddBirthday)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Accounts
	mux.HandleFunc("GET /accounts", requireAuth(account.List))
	mux.HandleFunc("POST /accounts", requireAuth(account.Create))
	mux.HandleFunc("GET /accounts/{id}", requireAuth(account.Get))
	mux.HandleFunc("PUT /accounts/{id}", requireAuth(account.Update))
	mux.HandleFunc("DELETE /accounts/{id}", requireAuth(account.Delete))

	// Birthdays
	mux.HandleFunc("GET /birthdays", requireAuth(birthday.List))
	mux.HandleFunc("POST /birthdays", requireAuth(birthday.Create))
	mux.HandleFunc("GET /birthdays/{id}", requireAuth(birthday.Get))
	mux.HandleFunc("PUT /birthdays/{id}", requireAuth(birthday.Update))
	mux.HandleFunc("DELETE /birthdays/{id}", requireAuth(birthday.Delete))

	// Legacy birthday paths kept for frontend compatibility
	mux.HandleFunc("GET /accounts/{accountId}/birthdays", requireAuth(birthday.ListForAccount))
	mux.HandleFunc("POST /accounts/{accountId}/birthdays", requireAuth(birthday.CreateForAccount))

	// Sharing links
	mux.HandleFunc("POST /sharing/links", requireAuth(sharing.Create))
	mux.HandleFunc("GET /sharing/links", requireAuth(sharing.List))
	mux.HandleFunc("DELETE /sharing/links/{id}", requireAuth(sharing.Revoke))

	// ============================================================================
	// STATIC FRONTEND
	// ============================================================================

	mux.Handle("GET /", http.FileServer(http.Dir(app.Cfg.PublicPath)))

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.CORS,
		middleware.RequestLogging,
	)

	return h
}
