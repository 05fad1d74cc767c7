package integrity

import (
	"context"
	"regexp"
	"testing"

	"procdiff/core/reconcile"
	"procdiff/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func testSchema() reconcile.Schema {
	return reconcile.Schema{
		KeyColumns:     []string{"Proc_code", "Modifiers"},
		CompareColumns: []string{"Proc_code", "Modifiers", "MAxFee"},
		OutputColumns:  []string{"Proc_code", "Modifiers", "MAxFee"},
	}
}

func showColumns(fields ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, f := range fields {
		rows.AddRow(f, "varchar(32)", "YES", "", nil, "")
	}
	return rows
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), nil, testSchema())

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)

		ch := make(chan minio.ObjectInfo)
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		report, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.True(t, report.BucketExists)
		assert.NotEmpty(t, report.Missing)
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
		report, err := svc.CheckStructure(context.Background())
		require.NoError(t, err)
		assert.NoError(t, svc.FixStructure(context.Background(), report))
	})
}

func TestService_CheckTable(t *testing.T) {
	t.Run("No Database", func(t *testing.T) {
		svc := NewService(new(mocks.Client), "test-bucket", zap.NewNop(), nil, testSchema())
		_, err := svc.CheckTable("fee_schedule")
		assert.ErrorIs(t, err, ErrNoDatabase)
	})

	t.Run("Matched", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		sqlMock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `fee_schedule`")).
			WillReturnRows(showColumns("PROC_CODE", "Modifiers", "MAxFee", "Extra"))

		svc := NewService(new(mocks.Client), "test-bucket", zap.NewNop(), db, testSchema())
		report, err := svc.CheckTable("fee_schedule")
		require.NoError(t, err)
		assert.True(t, report.Matched)
		assert.Len(t, report.Columns, 4)
	})

	t.Run("Missing", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		sqlMock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `fee_schedule`")).
			WillReturnRows(showColumns("Proc_code"))

		svc := NewService(new(mocks.Client), "test-bucket", zap.NewNop(), db, testSchema())
		report, err := svc.CheckTable("fee_schedule")
		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.Equal(t, []string{"Modifiers", "MAxFee"}, report.Missing)
	})
}
