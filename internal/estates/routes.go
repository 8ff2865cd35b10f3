package estates

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra rutas de inmuebles y de recomendación.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/api/estate", func(route chi.Router) {
		route.Get("/low_priced", handler.LowPriced)
		route.Get("/search", handler.Search)
		route.Get("/search/condition", handler.SearchCondition)
		route.Get("/{id}", handler.Get)
		route.Post("/req_doc/{id}", handler.RequestDocument)
	})
	route.Get("/api/recommended_estate", handler.Recommended)
	route.Get("/api/recommended_estate/{chairId}", handler.RecommendedForChair)
}
