package web

import (
	"github.com/go-chi/chi/v5"
)

func (s *Server) setupRoutes() {
	s.router.Get("/api/v1/health", healthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/photos", s.listPhotos)

		r.Get("/events", s.listEvents)
		r.Post("/events/{id}/name", s.nameEvent)

		r.Get("/locations/{level}", s.listLocations)

		r.Get("/faces", s.listFaceClusters)
		r.Get("/faces/{id}/label", s.getFaceLabel)
		r.Put("/faces/{id}/label", s.setFaceLabel)
		r.Get("/faces/{id}/similar", s.similarFaces)
	})
}
