package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/rajpatel923/Study-Solution-sub001/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay free of business logic; db may be nil on the in-memory tier.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/documents", ListDocuments(docSvc))
	app.Post("/documents", UploadDocument(docSvc))
	app.Get("/documents/:id", GetDocument(docSvc))
	// Partial updates are accepted under both verbs; the allow-list makes
	// them equivalent.
	app.Put("/documents/:id", UpdateDocument(docSvc))
	app.Patch("/documents/:id", UpdateDocument(docSvc))
	app.Delete("/documents/:id", DeleteDocument(docSvc))
}
