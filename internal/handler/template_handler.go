package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/mailward/campaigner/internal/errors"
	"github.com/mailward/campaigner/internal/model"
	"github.com/mailward/campaigner/internal/repository"
)

type TemplateHandler struct {
	Repo repository.TemplateRepositoryInterface
}

func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Subject  string `json:"subject"`
		BodyHTML string `json:"body_html"`
		BodyText string `json:"body_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Name == "" || payload.Subject == "" {
		http.Error(w, "name and subject are required", http.StatusBadRequest)
		return
	}

	tmpl := &model.EmailTemplate{
		Name:     payload.Name,
		Subject:  payload.Subject,
		BodyHTML: payload.BodyHTML,
		BodyText: payload.BodyText,
	}
	if err := h.Repo.Create(tmpl); err != nil {
		http.Error(w, "failed to create template: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Repo.List()
	if err != nil {
		http.Error(w, "failed to list templates: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tmpl, err := h.Repo.GetByName(name)
	if err != nil {
		var notFound *appErrors.ErrTemplateNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch template: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}
