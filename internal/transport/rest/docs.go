package rest

import (
	"net/http"
	"sort"
	"strings"

	"github.com/frahmantamala/calong-tick/internal/transport/swagger"
	"github.com/go-chi/chi"
)

const apiPrefix = "/api"

// UndocumentedRoutes lists the /api routes registered on routes that docs
// does not describe, as "METHOD /path" relative to the server url.
func UndocumentedRoutes(routes chi.Routes, docs *swagger.Document) ([]string, error) {
	var missing []string
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if !strings.HasPrefix(route, apiPrefix+"/") {
			return nil
		}
		path := strings.TrimPrefix(route, apiPrefix)
		if len(path) > 1 {
			path = strings.TrimSuffix(path, "/")
		}
		if !docs.HasOperation(method, path) {
			missing = append(missing, method+" "+path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(missing)
	return missing, nil
}
