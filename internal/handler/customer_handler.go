package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mailward/campaigner/internal/model"
	"github.com/mailward/campaigner/internal/repository"
	"github.com/mailward/campaigner/internal/service"
)

// CustomerHandler exposes the roster over HTTP.
type CustomerHandler struct {
	Repo    repository.CustomerRepositoryInterface
	Service *service.CustomerService
	Logger  *zap.Logger
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Company   string `json:"company"`
		Phone     string `json:"phone"`
		Status    string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	customer := &model.Customer{
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Company:   payload.Company,
		Phone:     payload.Phone,
		Status:    payload.Status,
	}
	if err := h.Repo.Add(customer); err != nil {
		http.Error(w, "failed to add customer: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = model.StatusActive
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	customers, err := h.Repo.List(status, limit)
	if err != nil {
		http.Error(w, "failed to list customers: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// DeleteCustomer removes one customer by numeric id or by email.
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	var deleted int
	var err error
	if id, convErr := strconv.Atoi(identifier); convErr == nil {
		deleted, err = h.Repo.DeleteByID(id)
	} else {
		deleted, err = h.Repo.DeleteByEmail(identifier)
	}
	if err != nil {
		http.Error(w, "failed to delete customer: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		http.Error(w, "customer not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// BulkDelete dispatches on whichever selector the payload carries; exactly one
// of ids, emails, status, domain must be set.
func (h *CustomerHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IDs    []int    `json:"ids"`
		Emails []string `json:"emails"`
		Status string   `json:"status"`
		Domain string   `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var deleted int
	var err error
	switch {
	case len(payload.IDs) > 0:
		deleted, err = h.Repo.DeleteByIDs(payload.IDs)
	case len(payload.Emails) > 0:
		deleted, err = h.Repo.DeleteByEmails(payload.Emails)
	case payload.Status != "":
		deleted, err = h.Repo.DeleteByStatus(payload.Status)
	case payload.Domain != "":
		deleted, err = h.Repo.DeleteByDomain(payload.Domain)
	default:
		http.Error(w, "one of ids, emails, status, domain is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "bulk delete failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// ImportCSV accepts a text/csv request body.
func (h *CustomerHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	imported, err := h.Service.ImportCSV(r.Body)
	if err != nil {
		http.Error(w, "import failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": imported})
}

func (h *CustomerHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="customers_export.csv"`)
	if err := h.Service.ExportCSV(w); err != nil {
		h.Logger.Error("CSV export failed", zap.Error(err))
	}
}

func (h *CustomerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Statistics()
	if err != nil {
		http.Error(w, "failed to compute statistics: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
