package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"regexp"
	"testing"

	"procdiff/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client, sqlmock.Sqlmock) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	db, sqlMock := setupMockDB(t)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), db, testSchema())
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mockClient, sqlMock
}

func emptyListing(mockClient *mocks.Client) {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))
}

func TestHandleStructureCheck(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	emptyListing(mockClient)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "checked", body["status"])
	assert.NotEmpty(t, body["missing"])
	mockClient.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleStructureCheck_Fix(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)
	mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "fixed", body["status"])
	assert.Equal(t, true, body["bucket_created"])
	mockClient.AssertNumberOfCalls(t, "PutObject", 3)
}

func TestHandleStructureCheck_Error(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleTableCheck(t *testing.T) {
	app, _, sqlMock := setupTestApp(t)
	sqlMock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `fee_schedule`")).
		WillReturnRows(showColumns("Proc_code", "Modifiers"))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/table/fee_schedule", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, false, body["matched"])
	assert.Equal(t, []any{"MAxFee"}, body["missing_columns"])
}

func TestHandleTableCheck_InvalidName(t *testing.T) {
	for _, name := range []string{"fee_schedule')%20--", "x'y", "fee_schedule;DROP"} {
		t.Run(name, func(t *testing.T) {
			app, _, sqlMock := setupTestApp(t)

			resp, err := app.Test(httptest.NewRequest("GET", "/integrity/table/"+name, nil))
			require.NoError(t, err)
			assert.Equal(t, 400, resp.StatusCode)
			assert.NoError(t, sqlMock.ExpectationsWereMet())
		})
	}
}

func TestHandleTableCheck_NoDatabase(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(new(mocks.Client), "test-bucket", zap.NewNop(), nil, testSchema())).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/table/fee_schedule", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient, sqlMock := setupTestApp(t)

	// Structure errors are reported in the body, not as a failed request
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)
	sqlMock.ExpectQuery(".*").WillReturnError(assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity?table=fee_schedule", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error", body["structure"]["status"])
	assert.Equal(t, "error", body["table"]["status"])
}
