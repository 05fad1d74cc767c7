package compare

import (
	"errors"
	"fmt"
	"strings"

	"procdiff/core/logger"
	"procdiff/core/reconcile"
	"procdiff/core/report"
	"procdiff/core/source"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for comparisons.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the compare routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/compare")
	group.Post("/", h.HandleCompare)
	group.Post("/report", h.HandleReport)
	group.Get("/schema", h.HandleSchema)
}

// reportRequest is the body of POST /compare/report.
type reportRequest struct {
	Request
	// Destination is an s3://bucket[/prefix]; empty uses the configured output.
	Destination string `json:"destination,omitempty"`
	Format      string `json:"format,omitempty"`
}

// checkRemote rejects server-local paths. Over HTTP, sources must be storage objects
// or database tables.
func checkRemote(req Request) error {
	fields := []struct{ name, uri string }{
		{"previous", req.Previous},
		{"current", req.Current},
		{"rules", req.Rules},
	}
	for _, f := range fields {
		if f.uri == "" {
			continue
		}
		loc, err := source.ParseURI(f.uri)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidRequest, f.name, err)
		}
		if loc.Kind == source.KindFile {
			return fmt.Errorf("%w: %s must be an s3:// or db:// location", ErrInvalidRequest, f.name)
		}
	}
	return nil
}

// checkDestination only allows publishing to a bucket.
func checkDestination(dest string) error {
	if dest != "" && !strings.HasPrefix(dest, "s3://") {
		return fmt.Errorf("%w: destination must be an s3:// location", ErrInvalidRequest)
	}
	return nil
}

// HandleCompare compares two snapshots.
// @Summary Compare Snapshots
// @Description Classifies records as New, Modified or Termed and flags scrubbed ones. Sources must be s3:// or db:// locations. Returns the plan as JSON, or a report file when format is given.
// @Tags compare
// @Accept json
// @Produce json
// @Param format query string false "Report file format (xlsx, csv, json)"
// @Success 200 {object} reconcile.Plan "Plan"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Missing Columns"
// @Router /compare [post]
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := checkRemote(req); err != nil {
		return h.fail(c, l, err)
	}

	var format report.Format
	if q := c.Query("format"); q != "" {
		f, err := report.ParseFormat(q)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		format = f
	}

	plan, err := h.service.Compare(c.Context(), req)
	if err != nil {
		return h.fail(c, l, err)
	}

	if format == "" {
		return c.JSON(plan)
	}

	data, err := h.service.Render(plan, format)
	if err != nil {
		l.Error("Report rendering failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", h.service.FileName(format)))
	return c.Send(data)
}

// HandleReport compares two snapshots and publishes the report.
// @Summary Publish Report
// @Description Runs a comparison and writes the report to the configured output or an s3:// destination.
// @Tags compare
// @Accept json
// @Produce json
// @Success 200 {object} Result "Published report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Missing Columns"
// @Router /compare/report [post]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req reportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := checkRemote(req.Request); err != nil {
		return h.fail(c, l, err)
	}
	if err := checkDestination(req.Destination); err != nil {
		return h.fail(c, l, err)
	}

	var format report.Format
	if req.Format != "" {
		f, err := report.ParseFormat(req.Format)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		format = f
	}

	result, err := h.service.Report(c.Context(), req.Request, req.Destination, format)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(result)
}

// HandleSchema returns the column layout.
// @Summary Comparison Schema
// @Description Lists key, compared, output and required columns.
// @Tags compare
// @Produce json
// @Success 200 {object} map[string]interface{} "Schema"
// @Router /compare/schema [get]
func (h *Handler) HandleSchema(c *fiber.Ctx) error {
	schema := h.service.Schema()
	return c.JSON(fiber.Map{
		"key_columns":     schema.KeyColumns,
		"compare_columns": schema.CompareColumns,
		"output_columns":  schema.OutputColumns,
		"required":        schema.Required(),
	})
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	var missing *reconcile.MissingColumnError
	switch {
	case errors.As(err, &missing):
		l.Warn("Snapshot is missing columns", zap.String("snapshot", missing.Snapshot), zap.Strings("columns", missing.Columns))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":    err.Error(),
			"snapshot": missing.Snapshot,
			"missing":  missing.Columns,
		})
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, source.ErrUnsupportedFormat):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error("Compare failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
