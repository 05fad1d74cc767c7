package compare

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"procdiff/core/reconcile"
	"procdiff/core/report"
	"procdiff/core/source"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	prevURI     = "s3://compare/snapshots/prev.csv"
	currURI     = "s3://compare/snapshots/curr.csv"
	compareBody = `{"previous":"` + prevURI + `","current":"` + currURI + `"}`
)

func setupTestApp(t *testing.T) (*fiber.App, *mockOpener, *mockPublisher) {
	app := fiber.New()
	opener := new(mockOpener)
	publisher := new(mockPublisher)
	svc := newTestService(opener, publisher)
	NewHandler(svc).RegisterRoutes(app)
	return app, opener, publisher
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func expectSnapshots(opener *mockOpener) {
	opener.On("Open", mock.Anything, prevURI).Return(previousTable(), nil)
	opener.On("Open", mock.Anything, currURI).Return(currentTable(), nil)
}

func TestHandleCompare(t *testing.T) {
	app, opener, _ := setupTestApp(t)
	expectSnapshots(opener)

	resp, err := app.Test(postJSON("/compare", compareBody))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var plan reconcile.Plan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	assert.Len(t, plan.Records, 3)
	assert.Equal(t, 1, plan.Summary.New)
	assert.Equal(t, []string{"Previous.Rate Eff", "Current.Rate Eff"}, plan.Labels)
}

func TestHandleCompare_File(t *testing.T) {
	app, opener, _ := setupTestApp(t)
	expectSnapshots(opener)

	resp, err := app.Test(postJSON("/compare?format=csv", compareBody))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, report.FormatCSV.ContentType(), resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "OutputReport20240101_150405.csv")

	body, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[3], "C3,,7,Termed code"))
}

func TestHandleCompare_BadFormat(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(postJSON("/compare?format=pdf", compareBody))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleCompare_InvalidRequest(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(postJSON("/compare", `{"previous":"`+prevURI+`"}`))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleCompare_UnsupportedRules(t *testing.T) {
	app, opener, _ := setupTestApp(t)
	expectSnapshots(opener)
	opener.On("Open", mock.Anything, "s3://compare/rules/rules.txt").
		Return(nil, fmt.Errorf("%w: rules.txt", source.ErrUnsupportedFormat))

	body := `{"previous":"` + prevURI + `","current":"` + currURI + `","rules":"s3://compare/rules/rules.txt"}`
	resp, err := app.Test(postJSON("/compare", body))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleCompare_MissingColumnStatus(t *testing.T) {
	app, opener, _ := setupTestApp(t)
	opener.On("Open", mock.Anything, prevURI).Return(previousTable(), nil)
	opener.On("Open", mock.Anything, currURI).Return(&source.Table{
		Header: []string{"Proc_code", "Modifiers"},
		Rows:   [][]string{{"A1", ""}},
	}, nil)

	resp, err := app.Test(postJSON("/compare", compareBody))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "current", body["snapshot"])
	assert.Equal(t, []any{"Rate Eff", "MAxFee"}, body["missing"])
}

func TestHandleReport(t *testing.T) {
	app, opener, publisher := setupTestApp(t)
	expectSnapshots(opener)
	publisher.On("Publish", mock.Anything, "s3://archive/weekly", "OutputReport20240101_150405.json", report.FormatJSON, mock.Anything).
		Return("s3://archive/weekly/OutputReport20240101_150405.json", nil)

	body := `{"previous":"` + prevURI + `","current":"` + currURI + `","destination":"s3://archive/weekly","format":"json"}`
	resp, err := app.Test(postJSON("/compare/report", body))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "s3://archive/weekly/OutputReport20240101_150405.json", result.Location)
	assert.Equal(t, report.FormatJSON, result.Format)
	publisher.AssertExpectations(t)
}

func TestHandleCompare_RejectsLocalSources(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"AbsolutePrevious", `{"previous":"/etc/passwd.csv","current":"` + currURI + `"}`},
		{"RelativeCurrent", `{"previous":"` + prevURI + `","current":"../secret/private.csv"}`},
		{"LocalRules", `{"previous":"` + prevURI + `","current":"` + currURI + `","rules":"/etc/rules.yaml"}`},
		{"InjectedTable", `{"previous":"db://fee; DROP TABLE x","current":"` + currURI + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, opener, _ := setupTestApp(t)

			for _, target := range []string{"/compare", "/compare/report"} {
				resp, err := app.Test(postJSON(target, tt.body))
				require.NoError(t, err)
				assert.Equal(t, 400, resp.StatusCode, target)
			}
			opener.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
			opener.AssertNotCalled(t, "ReadAll", mock.Anything, mock.Anything)
		})
	}
}

func TestHandleReport_RejectsLocalDestination(t *testing.T) {
	for _, dest := range []string{"/tmp/reports", "../out", "reports"} {
		t.Run(dest, func(t *testing.T) {
			app, opener, publisher := setupTestApp(t)

			body := `{"previous":"` + prevURI + `","current":"` + currURI + `","destination":"` + dest + `"}`
			resp, err := app.Test(postJSON("/compare/report", body))
			require.NoError(t, err)
			assert.Equal(t, 400, resp.StatusCode)
			opener.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
			publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleReport_ConfiguredOutput(t *testing.T) {
	app, opener, publisher := setupTestApp(t)
	expectSnapshots(opener)
	publisher.On("Publish", mock.Anything, "s3://compare/reports", "OutputReport20240101_150405.xlsx", report.FormatXLSX, mock.Anything).
		Return("s3://compare/reports/OutputReport20240101_150405.xlsx", nil)

	resp, err := app.Test(postJSON("/compare/report", compareBody))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	publisher.AssertExpectations(t)
}

func TestHandleSchema(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/compare/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"Proc_code", "Modifiers"}, body["key_columns"])
	assert.Equal(t, []string{"Proc_code", "Modifiers", "Rate Eff", "MAxFee"}, body["required"])
}

func TestLoader(t *testing.T) {
	feature := NewFeature(newTestService(new(mockOpener), nil))

	assert.Equal(t, "compare", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
