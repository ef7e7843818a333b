package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rollcall-app/rollcall/internal/accessgraph"
	"github.com/rollcall-app/rollcall/internal/admin"
	"github.com/rollcall-app/rollcall/internal/api/handler"
	"github.com/rollcall-app/rollcall/internal/api/middleware"
	"github.com/rollcall-app/rollcall/internal/identity"
	"github.com/rollcall-app/rollcall/internal/member"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Verifier     identity.Verifier
	AdminService *admin.Service
	MemberRepo   member.Repository
	GraphRepo    accessgraph.Repository
	Resolver     *accessgraph.Resolver
	DBPinger     handler.DBPinger
	Version      string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	adminHandler := handler.NewAdminHandler(deps.AdminService)
	identityHandler := handler.NewIdentityHandler(deps.AdminService)

	// The grant endpoint is called cross-origin by the membership frontend.
	grantCORS := cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		OptionsPassthrough: true,
	})

	r.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(grantCORS)
			r.Get("/grant", adminHandler.Grant)
			r.Post("/grant", adminHandler.Grant)
			r.Options("/grant", adminHandler.GrantPreflight)
		})
		r.Get("/admins", adminHandler.ListAdmins)
	})

	r.Patch("/identities/{uid}", identityHandler.Update)

	memberHandler := handler.NewMemberHandler(deps.MemberRepo, deps.Resolver)
	groupHandler := handler.NewAccessGroupHandler(deps.GraphRepo)
	sectionHandler := handler.NewSectionHandler(deps.GraphRepo)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.Verifier))

		r.Route("/members", func(r chi.Router) {
			r.Get("/", memberHandler.List)
			r.Get("/{id}", memberHandler.GetByID)
			r.Get("/{id}/sections", memberHandler.VisibleSections)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Post("/", memberHandler.Upsert)
				r.Delete("/{id}", memberHandler.Delete)
			})
		})

		r.Route("/access-groups", func(r chi.Router) {
			r.Get("/", groupHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Post("/", groupHandler.Create)
				r.Put("/{id}/members/{memberID}", groupHandler.AddMember)
				r.Delete("/{id}/members/{memberID}", groupHandler.RemoveMember)
			})
		})

		r.Route("/sections", func(r chi.Router) {
			r.Get("/", sectionHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Post("/", sectionHandler.Create)
				r.Put("/{id}/access-groups/{groupID}", sectionHandler.GrantGroup)
				r.Delete("/{id}/access-groups/{groupID}", sectionHandler.RevokeGroup)
			})
		})
	})

	return r
}
