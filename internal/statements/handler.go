package statements

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lembarbuku/lembarbuku/internal/shared"
)

// Handler serves the statement summary endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the statement handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the statement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/laba-rugi", h.handleIncomeStatement)
	r.Get("/perubahan-modal", h.handleEquityChanges)
	r.Get("/neraca", h.handleBalanceSheet)
}

func (h *Handler) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.IncomeStatement(r.Context())
	if err != nil {
		h.fail(w, "laporan laba rugi", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tersedia":     summary.Tersedia,
		"total_debet":  shared.FormatRupiah(summary.TotalDebet),
		"total_kredit": shared.FormatRupiah(summary.TotalKredit),
		"laba_bersih":  shared.FormatRupiah(summary.LabaBersih),
	})
}

func (h *Handler) handleEquityChanges(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.EquityChanges(r.Context())
	if err != nil {
		h.fail(w, "laporan perubahan modal", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tersedia":     summary.Tersedia,
		"total_debet":  shared.FormatRupiah(summary.TotalDebet),
		"total_kredit": shared.FormatRupiah(summary.TotalKredit),
	})
}

func (h *Handler) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.BalanceSheet(r.Context())
	if err != nil {
		h.fail(w, "neraca", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tersedia":     summary.Tersedia,
		"total_aktiva": shared.FormatRupiah(summary.TotalAktiva),
		"total_pasiva": shared.FormatRupiah(summary.TotalPasiva),
		"seimbang":     summary.Balanced,
	})
}

func (h *Handler) fail(w http.ResponseWriter, name string, err error) {
	h.logger.Error("build statement", slog.String("laporan", name), slog.Any("error", err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": http.StatusText(http.StatusInternalServerError)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
