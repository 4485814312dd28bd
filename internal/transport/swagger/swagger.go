package swagger

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// DocumentPath is where the router serves the raw OpenAPI document.
const DocumentPath = "/openapi.yml"

// Document is a parsed and validated OpenAPI description together with
// the bytes it was read from.
type Document struct {
	raw []byte
	doc *openapi3.T
}

// Load reads the OpenAPI file at path and validates it, so a broken
// document fails startup instead of the Swagger UI.
func Load(ctx context.Context, path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read openapi document: %w", err)
	}
	return Parse(ctx, raw)
}

func Parse(ctx context.Context, raw []byte) (*Document, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	return &Document{raw: raw, doc: doc}, nil
}

func (d *Document) Title() string {
	return d.doc.Info.Title
}

func (d *Document) Version() string {
	return d.doc.Info.Version
}

// HasOperation reports whether the document describes method on path.
func (d *Document) HasOperation(method, path string) bool {
	item := d.doc.Paths.Find(path)
	if item == nil {
		return false
	}
	return item.GetOperation(method) != nil
}

func (d *Document) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(d.raw)
}

// Handler serves the Swagger UI pointed at DocumentPath.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(DocumentPath),
	)
}
