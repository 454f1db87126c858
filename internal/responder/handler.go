package responder

import (
	"net/http"
	"os"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
	supervisorHeaders "github.com/robbyt/go-supervisor/runnables/httpserver/middleware/headers"
)

const (
	// ContentType is declared on every response; the file is not inspected.
	ContentType = "application/json"

	// AllowOrigin is the value of the Access-Control-Allow-Origin header.
	AllowOrigin = "*"

	routeID   = "static-file"
	routePath = "/"
)

// fixedHeaders returns the middleware that sets the two static response headers.
func fixedHeaders() httpserver.HandlerFunc {
	return supervisorHeaders.NewWithOperations(
		supervisorHeaders.WithSet(http.Header{
			"Access-Control-Allow-Origin": []string{AllowOrigin},
			"Content-Type":                []string{ContentType},
		}),
	)
}

// handle answers every GET with the current bytes of the configured file.
// The file is re-read for each request so edits on disk show up immediately.
func (r *Responder) handle(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet, http.MethodHead:
	default:
		http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
		return
	}

	body, err := os.ReadFile(r.path)
	if err != nil {
		r.logger.Error("Failed to read served file", "path", r.path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		r.logger.Debug("Failed to write response", "remote", req.RemoteAddr, "error", err)
	}
}

// Route builds the catch-all route serving the file, with the fixed headers applied.
func (r *Responder) Route() (*httpserver.Route, error) {
	return httpserver.NewRouteFromHandlerFunc(routeID, routePath, r.handle, fixedHeaders())
}
