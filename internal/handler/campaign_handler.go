package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/mailward/campaigner/internal/errors"
	"github.com/mailward/campaigner/internal/model"
	"github.com/mailward/campaigner/internal/repository"
	"github.com/mailward/campaigner/internal/service"
)

// CampaignHandler exposes campaign scheduling and the send endpoints.
type CampaignHandler struct {
	Scheduler  *service.Scheduler
	Dispatcher *service.Dispatcher
	Repo       repository.CampaignRepositoryInterface
}

func (h *CampaignHandler) ScheduleCampaign(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name           string `json:"name"`
		Template       string `json:"template"`
		ScheduledTime  string `json:"scheduled_time"`
		CustomerFilter string `json:"customer_filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Name == "" || payload.Template == "" || payload.ScheduledTime == "" {
		http.Error(w, "name, template and scheduled_time are required", http.StatusBadRequest)
		return
	}

	campaign, err := h.Scheduler.Schedule(payload.Name, payload.Template, payload.ScheduledTime, payload.CustomerFilter)
	if err != nil {
		var notFound *appErrors.ErrTemplateNotFound
		var badTime *appErrors.ErrInvalidScheduleTime
		switch {
		case errors.As(err, &notFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.As(err, &badTime):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to schedule campaign: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.Repo.List(r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "failed to list campaigns: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// SendBulk runs a bulk send synchronously and returns the tally. The call
// blocks for the duration of the paced loop.
func (h *CampaignHandler) SendBulk(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Template       string `json:"template"`
		CustomerFilter string `json:"customer_filter"`
		Limit          int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Template == "" {
		http.Error(w, "template is required", http.StatusBadRequest)
		return
	}
	if payload.CustomerFilter == "" {
		payload.CustomerFilter = model.StatusActive
	}

	result := h.Dispatcher.SendBulk(payload.Template, payload.CustomerFilter, payload.Limit)
	writeJSON(w, http.StatusOK, result)
}

func (h *CampaignHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		To       string `json:"to"`
		Subject  string `json:"subject"`
		BodyHTML string `json:"body_html"`
		BodyText string `json:"body_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.To == "" || payload.Subject == "" {
		http.Error(w, "to and subject are required", http.StatusBadRequest)
		return
	}

	if err := h.Dispatcher.SendTest(payload.To, payload.Subject, payload.BodyHTML, payload.BodyText); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{"sent": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}
