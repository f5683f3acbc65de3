package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/garden_shop/pkg/logging"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "debug")))

	var inHandler string
	e.GET("/cart/:sessionId", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside")
		inHandler = c.Request().Header.Get(echo.HeaderXRequestID)
		return c.NoContent(http.StatusOK)
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart/s1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	rid := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, rid)
	assert.Equal(t, rid, inHandler)

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "inside", lines[0]["msg"])
	assert.Equal(t, rid, lines[0]["request_id"])
	assert.Equal(t, "request_completed", lines[1]["msg"])
	assert.Equal(t, "/cart/:sessionId", lines[1]["route"])
	assert.EqualValues(t, http.StatusOK, lines[1]["status"])

	buf.Reset()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(echo.HeaderXRequestID, "given-id")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "given-id", rec.Header().Get(echo.HeaderXRequestID))

	lines = logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Contains(t, lines[0]["error"], "quantity must be at least 1")
}
