package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"gopkg.in/yaml.v3"
)

// OpenAPIHandler serves the API description checked in at api/openapi.yaml,
// either verbatim or converted to JSON. The file is read once and cached for
// the lifetime of the process.
type OpenAPIHandler struct {
	specPath string
	baseDir  string

	once     sync.Once
	yamlSpec []byte
	jsonSpec []byte
	loadErr  error
}

// NewOpenAPIHandler creates a handler for the spec file at specPath.
func NewOpenAPIHandler(specPath string) *OpenAPIHandler {
	absPath, _ := filepath.Abs(specPath)
	baseDir, _ := filepath.Abs(filepath.Dir(specPath))
	return &OpenAPIHandler{specPath: absPath, baseDir: baseDir}
}

// RegisterRoutes registers the spec routes on the root router.
func (h *OpenAPIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/openapi.yaml", h.ServeYAML).Methods("GET")
	r.HandleFunc("/api/v1/openapi.json", h.ServeJSON).Methods("GET")
}

// load reads and parses the spec on first use. The path must stay inside its
// own directory; anything that escapes is treated as missing.
func (h *OpenAPIHandler) load() error {
	h.once.Do(func() {
		rel, err := filepath.Rel(h.baseDir, filepath.Clean(h.specPath))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			h.loadErr = os.ErrPermission
			return
		}

		data, err := os.ReadFile(h.specPath)
		if err != nil {
			h.loadErr = err
			return
		}
		h.yamlSpec = data

		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			h.loadErr = err
			return
		}
		h.jsonSpec, h.loadErr = json.Marshal(doc)
	})
	return h.loadErr
}

// ServeYAML serves the spec as checked in.
func (h *OpenAPIHandler) ServeYAML(w http.ResponseWriter, r *http.Request) {
	if err := h.load(); err != nil {
		http.Error(w, "OpenAPI specification not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	_, _ = w.Write(h.yamlSpec)
}

// ServeJSON serves the spec converted to JSON.
func (h *OpenAPIHandler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	if err := h.load(); err != nil {
		http.Error(w, "OpenAPI specification not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(h.jsonSpec)
}
