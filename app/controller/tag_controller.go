package controller

import (
	"errors"
	"net/http"

	"foodgram/logger"
	"foodgram/repository"
)

// TagController handles HTTP requests for tags
type TagController struct {
	repository repository.TagRepositoryInterface
}

// NewTagController creates a new TagController
func NewTagController(repo repository.TagRepositoryInterface) *TagController {
	return &TagController{
		repository: repo,
	}
}

// List handles GET /api/tags/
// Example response:
// [{"id": 1, "name": "Завтрак", "color": "#E26C2D", "slug": "breakfast"}]
func (c *TagController) List(w http.ResponseWriter, r *http.Request) {
	tags, err := c.repository.List(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("❌ ListTags: Error fetching tags")
		writeError(w, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// Get handles GET /api/tags/{id}/
func (c *TagController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tag, err := c.repository.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Tag not found")
			return
		}
		logger.Error().Err(err).Int64("tag_id", id).Msg("❌ GetTag: Error fetching tag")
		writeError(w, http.StatusInternalServerError, "Failed to fetch tag")
		return
	}
	writeJSON(w, http.StatusOK, tag)
}
