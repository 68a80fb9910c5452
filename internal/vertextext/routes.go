package vertextext

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, direct, chain *Handler) {
	r.Post(RouteVertexText, direct.Handle)
	r.Post(RouteVertexTextLangchain, chain.Handle)
}
