package integrity

import (
	"context"
	"errors"

	"procdiff/core/reconcile"
	"procdiff/core/storage"
	"procdiff/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase indicates a table check without a database connection.
var ErrNoDatabase = errors.New("database not configured")

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	db     *gorm.DB
	schema reconcile.Schema
}

// NewService creates a new integrity service. db may be nil.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, schema reconcile.Schema) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		logger: logger,
		db:     db,
		schema: schema,
	}
}

// CheckStructure reports the bucket and its missing folders.
func (s *Service) CheckStructure(ctx context.Context) (*checks.StructureReport, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// FixStructure creates what the report found missing.
func (s *Service) FixStructure(ctx context.Context, report *checks.StructureReport) error {
	return checks.FixStructure(ctx, s.client, s.logger, report)
}

// CheckTable verifies a database table can be read as a snapshot.
func (s *Service) CheckTable(table string) (*checks.TableReport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return checks.CheckTable(s.db, table, s.schema.Required())
}
