package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handlerErr error) (*httptest.ResponseRecorder, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.GET("/boom", func(c echo.Context) error { return handlerErr })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	return rec, hook
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestErrorHandler_HTTPError(t *testing.T) {
	rec, hook := serve(t, echo.NewHTTPError(http.StatusForbidden, "forbidden"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, Envelope{Status: StatusError, Code: http.StatusForbidden, Message: "forbidden"}, decode(t, rec))
	assert.Empty(t, hook.AllEntries())
}

func TestErrorHandler_UnexpectedErrorIsHidden(t *testing.T) {
	rec, hook := serve(t, errors.New("pq: connection refused at 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "internal server error", env.Message)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestErrorHandler_NotFoundRoute(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(logger)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, StatusError, decode(t, rec).Status)
}

func TestSuccess(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Success(c, http.StatusCreated, "created", map[string]string{"id": "1"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"status":"success","code":201,"message":"created","data":{"id":"1"}}`, rec.Body.String())
}
