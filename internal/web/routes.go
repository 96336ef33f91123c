package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-orchestrator/internal/metrics"
	"github.com/kozaktomas/face-orchestrator/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	faceHandler := handlers.NewFaceRecognitionHandler(s.orchestrator)
	profilesHandler := handlers.NewProfilesHandler(s.profiles)
	configHandler := handlers.NewConfigHandler(s.config, s.profiles != nil)

	s.router.Get("/api/health", handlers.HealthCheck)
	s.router.Get("/api/config", configHandler.Get)
	s.router.Handle("/metrics", metrics.Handler())

	s.router.Route("/api/facerecognition", func(r chi.Router) {
		r.Get("/compare-two-faces", faceHandler.CompareTwoFaces)

		// Collections
		r.Post("/create-collection", faceHandler.CreateCollection)
		r.Get("/decsribe-collection", faceHandler.DescribeCollection)
		r.Get("/describe-collection", faceHandler.DescribeCollection)
		r.Post("/add-single-face-to-collection", faceHandler.AddSingleFace)
		r.Post("/add-all-faces-to-collection", faceHandler.AddAllFaces)
		r.Get("/search-a-face", faceHandler.SearchFace)
		r.Get("/list-faces-in-a-collection", faceHandler.ListFaces)

		// Object store
		r.Post("/create-s3bucket", faceHandler.CreateS3Bucket)
		r.Get("/presign-url", faceHandler.PresignURL)
		r.Get("/list-objects", faceHandler.ListObjects)
	})

	s.router.Route("/api/userprofile", func(r chi.Router) {
		r.Post("/", profilesHandler.Create)
		r.Get("/{id}", profilesHandler.Get)
	})
}
