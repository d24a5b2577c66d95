package handler

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"vidapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// db may be nil when the in-memory metadata store is in use; the health
// handler then reports healthy without a ping.
func RegisterRoutes(app *fiber.App, db *sql.DB, videoSvc service.VideoService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/", Root())
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/api/videos", UploadVideo(videoSvc))
	app.Get("/api/videos", ListVideos(videoSvc))
	app.Get("/api/videos/:id", GetVideo(videoSvc))
	app.Get("/stream/:filename", StreamVideo(videoSvc))
}

// Root returns a simple informational message.
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "video backend running"})
	}
}

// HealthCheck reports dependency health; it pings the database when one is
// configured.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadVideo ingests a multipart video upload (field name: file) with
// optional title, description, and tags form fields.
func UploadVideo(videoSvc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		v, err := videoSvc.Upload(
			c.UserContext(),
			f,
			fh.Filename,
			fh.Header.Get("Content-Type"),
			c.FormValue("title"),
			c.FormValue("description"),
			c.FormValue("tags"),
		)
		if err != nil {
			if errors.Is(err, service.ErrInvalidContentType) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_CONTENT_TYPE", "only video files are allowed")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": v.ID})
	}
}

// ListVideos returns all videos, optionally filtered by the q query param.
func ListVideos(videoSvc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		videos, err := videoSvc.List(c.UserContext(), c.Query("q"))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(videos)
	}
}

// GetVideo resolves a video by id, increments its view counter, and returns
// the post-increment record.
func GetVideo(videoSvc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := videoSvc.View(c.UserContext(), c.Params("id"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidID):
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "video not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(v)
	}
}

// StreamVideo serves the raw blob bytes for the given stored filename.
func StreamVideo(videoSvc service.VideoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, size, err := videoSvc.Stream(c.UserContext(), c.Params("filename"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		c.Set(fiber.HeaderContentType, "application/octet-stream")
		return c.SendStream(rc, int(size))
	}
}
