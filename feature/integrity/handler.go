package integrity

import (
	"errors"

	"procdiff/core/database"
	"procdiff/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/table/:name", h.HandleTableCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Checks the bucket structure and, when a table is given, the table columns.
// @Tags integrity
// @Produce json
// @Param table query string false "Snapshot table to inspect"
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if structure, err := h.service.CheckStructure(c.Context()); err != nil {
		report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = structure
	}

	if table := c.Query("table"); table != "" {
		if tbl, err := h.service.CheckTable(table); err != nil {
			report["table"] = map[string]interface{}{"status": "error", "error": err.Error()}
		} else {
			report["table"] = tbl
		}
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes structure.
// @Summary Check Structure
// @Description Checks that the bucket has the snapshots, rules and reports folders. Optionally creates what is missing.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.OK() {
		l.Warn("Storage structure incomplete",
			zap.Bool("bucket_exists", report.BucketExists),
			zap.Strings("missing", report.Missing))

		if fix {
			l.Info("Attempting to fix storage structure")
			if err := h.service.FixStructure(c.Context(), report); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": report.Missing,
				})
			}
			return c.JSON(fiber.Map{
				"status":         "fixed",
				"bucket_created": !report.BucketExists,
				"fixed":          report.Missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":        "checked",
		"bucket_exists": report.BucketExists,
		"missing":       report.Missing,
	})
}

// HandleTableCheck checks a snapshot table's columns.
// @Summary Check Table
// @Description Verifies that a database table exposes every column a comparison needs.
// @Tags integrity
// @Produce json
// @Param name path string true "Table name"
// @Success 200 {object} checks.TableReport "Table Report"
// @Failure 400 {object} map[string]string "Invalid table name"
// @Failure 503 {object} map[string]string "Database not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/table/{name} [get]
func (h *Handler) HandleTableCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	table := c.Params("name")

	report, err := h.service.CheckTable(table)
	switch {
	case errors.Is(err, database.ErrInvalidTableName):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNoDatabase):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		l.Error("Table check failed", zap.String("table", table), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Matched {
		l.Warn("Table is missing columns", zap.String("table", table), zap.Strings("missing", report.Missing))
	}
	return c.JSON(report)
}
