package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
//
// The tree is fixed: every resource of the managed strip has a static path,
// with outlet id as the only variable segment. Unknown paths answer 404 and
// known paths with the wrong verb answer 405, both with structured bodies.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMethodNotAllowed(w, "method "+r.Method+" not allowed on this resource")
	})

	// Version discovery
	r.Get("/redfish", s.handleVersions)

	r.Route("/redfish/v1", func(r chi.Router) {
		r.Get("/", s.handleServiceRoot)
		r.Get("/$metadata", s.handleMetadata)

		r.Route("/Chassis", func(r chi.Router) {
			r.Get("/", s.handleChassisCollection)

			r.Route("/PowerStrip", func(r chi.Router) {
				r.Get("/", s.handleChassis)
				r.Get("/Power", s.handlePower)

				r.Route("/PowerSubsystem", func(r chi.Router) {
					r.Get("/", s.handlePowerSubsystem)

					r.Route("/PowerSupplies", func(r chi.Router) {
						r.Get("/", s.handlePowerSupplyCollection)
						r.Get("/0", s.handlePowerSupply)
					})

					r.Route("/OutletGroups", func(r chi.Router) {
						r.Get("/", s.handleOutletGroupCollection)
						r.Get("/All", s.handleOutletGroup)
					})

					r.Route("/Outlets", func(r chi.Router) {
						r.Get("/", s.handleOutletCollection)

						r.Route("/{id}", func(r chi.Router) {
							r.Get("/", s.handleOutlet)
							r.Post("/Actions/Outlet.PowerControl", s.handlePowerControl)
							r.Post("/Actions/Outlet.ResetMetrics", s.handleResetMetrics)
						})
					})
				})
			})
		})

		r.Get("/Systems", s.handleSystemsCollection)

		r.Route("/Managers", func(r chi.Router) {
			r.Get("/", s.handleManagerCollection)
			r.Get("/BMC", s.handleManager)
		})

		r.Route("/SessionService", func(r chi.Router) {
			r.Get("/", s.handleSessionService)
			r.Get("/Sessions", s.handleSessionCollection)
		})
	})

	return r
}
