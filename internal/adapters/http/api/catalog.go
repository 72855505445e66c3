package api

import (
	"net/http"

	"github.com/okian/vokasi/internal/domain/features"
	"github.com/okian/vokasi/internal/domain/model"
)

// CatalogProvider is the dependency of CatalogHandler.
type CatalogProvider interface {
	Catalog() features.Catalog
}

// CatalogHandler lists the accepted category values.
type CatalogHandler struct {
	deps CatalogProvider
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogProvider) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type catalogResponse struct {
	Education  []string `json:"education"`
	Field      []string `json:"field"`
	Gender     []string `json:"gender"`
	Experience []string `json:"experience"`
}

// HandleCatalog handles GET /api/catalog requests.
func (h *CatalogHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c := h.deps.Catalog()
	writeJSON(w, http.StatusOK, catalogResponse{
		Education:  c.Values(features.FieldEducation),
		Field:      c.Values(features.FieldTraining),
		Gender:     []string{string(model.GenderMale), string(model.GenderFemale)},
		Experience: []string{string(model.ExperienceYes), string(model.ExperienceNo)},
	})
}
