package chairs

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra rutas de sillas en el router.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/api/chair", func(route chi.Router) {
		route.Get("/low_priced", handler.LowPriced)
		route.Get("/search", handler.Search)
		route.Get("/search/condition", handler.SearchCondition)
		route.Get("/{id}", handler.Get)
		route.Post("/buy/{id}", handler.Buy)
	})
	route.Get("/api/recommended_chair", handler.Recommended)
}
