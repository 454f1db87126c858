package responder

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/atlanticdynamic/jsonfixture/internal/testutil"
	"github.com/robbyt/go-loglater"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve runs one request through the responder's route
func serve(t *testing.T, r *Responder, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	route, err := r.Route()
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	route.ServeHTTP(rec, req)
	return rec
}

func TestResponder_Handle(t *testing.T) {
	t.Parallel()

	t.Run("GET returns file with fixed headers", func(t *testing.T) {
		t.Parallel()
		path := testutil.WriteFixture(t, "data.json", `{"items":[1,2,3]}`)
		r, err := New(path)
		require.NoError(t, err)

		rec := serve(t, r, http.MethodGet, "/")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `{"items":[1,2,3]}`, rec.Body.String())
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})

	t.Run("path is ignored", func(t *testing.T) {
		t.Parallel()
		path := testutil.WriteFixture(t, "data.json", `{"same":"body"}`)
		r, err := New(path)
		require.NoError(t, err)

		tests := []string{"/", "/foo", "/bar/baz", "/api/v1/users?id=7"}
		for _, target := range tests {
			rec := serve(t, r, http.MethodGet, target)
			assert.Equal(t, http.StatusOK, rec.Code, target)
			assert.Equal(t, `{"same":"body"}`, rec.Body.String(), target)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), target)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), target)
		}
	})

	t.Run("content type is declared regardless of file content", func(t *testing.T) {
		t.Parallel()
		path := testutil.WriteFixture(t, "page.html", "<html></html>")
		r, err := New(path)
		require.NoError(t, err)

		rec := serve(t, r, http.MethodGet, "/page.html")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<html></html>", rec.Body.String())
	})

	t.Run("binary content is byte-identical", func(t *testing.T) {
		t.Parallel()
		content := string([]byte{0x00, 0xff, 0x10, '\n', 0x7f})
		path := testutil.WriteFixture(t, "blob.bin", content)
		r, err := New(path)
		require.NoError(t, err)

		rec := serve(t, r, http.MethodGet, "/")
		assert.Equal(t, []byte(content), rec.Body.Bytes())
	})

	t.Run("file is re-read on every request", func(t *testing.T) {
		t.Parallel()
		path := testutil.WriteFixture(t, "data.json", `{"v":1}`)
		r, err := New(path)
		require.NoError(t, err)

		assert.Equal(t, `{"v":1}`, serve(t, r, http.MethodGet, "/").Body.String())

		require.NoError(t, os.WriteFile(path, []byte(`{"v":2}`), 0o644))
		assert.Equal(t, `{"v":2}`, serve(t, r, http.MethodGet, "/").Body.String())
	})

	t.Run("HEAD returns headers only", func(t *testing.T) {
		t.Parallel()
		path := testutil.WriteFixture(t, "data.json", `{"v":1}`)
		r, err := New(path)
		require.NoError(t, err)

		rec := serve(t, r, http.MethodHead, "/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other methods are not implemented", func(t *testing.T) {
		t.Parallel()
		path := testutil.WriteFixture(t, "data.json", `{"v":1}`)
		r, err := New(path)
		require.NoError(t, err)

		for _, method := range []string{
			http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch,
		} {
			rec := serve(t, r, method, "/")
			assert.Equal(t, http.StatusNotImplemented, rec.Code, method)
			assert.NotContains(t, rec.Body.String(), `{"v":1}`, method)
		}
	})
}

func TestResponder_HandleReadError(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFixture(t, "data.json", `{"v":1}`)
	logCollector := loglater.NewLogCollector(nil)
	r, err := New(path, WithLogHandler(logCollector))
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	rec := serve(t, r, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotContains(t, rec.Body.String(), `{"v":1}`)

	logs := logCollector.GetLogs()
	require.NotEmpty(t, logs)
	assert.Equal(t, slog.LevelError, logs[len(logs)-1].Level)
	assert.Equal(t, "Failed to read served file", logs[len(logs)-1].Message)

	// the responder keeps working once the file is back
	require.NoError(t, os.WriteFile(path, []byte(`{"v":2}`), 0o644))
	rec = serve(t, r, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"v":2}`, rec.Body.String())
}
