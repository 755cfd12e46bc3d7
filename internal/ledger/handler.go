package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type submitTransactionRequest struct {
	Tanggal     string  `json:"tanggal" validate:"required"`
	Keterangan  string  `json:"keterangan"`
	AkunDebet   string  `json:"akun_debet" validate:"required,akun"`
	NilaiDebet  float64 `json:"nilai_debet" validate:"gte=0"`
	AkunKredit  string  `json:"akun_kredit" validate:"required,akun"`
	NilaiKredit float64 `json:"nilai_kredit" validate:"gte=0"`
}

type submitTransactionResponse struct {
	ID         string            `json:"id"`
	Diperbarui []string          `json:"diperbarui"`
	Gagal      map[string]string `json:"gagal,omitempty"`
}

// Handler serves transaction submission.
type Handler struct {
	logger     *slog.Logger
	propagator *Propagator
	validate   *validator.Validate
	afterWrite []func(updated []string)
}

// NewHandler constructs the transaction handler. afterWrite hooks run once
// per accepted transaction with the names of the reports that changed
// (cache invalidation, metrics, job enqueueing).
func NewHandler(logger *slog.Logger, propagator *Propagator, afterWrite ...func(updated []string)) *Handler {
	v := validator.New()
	_ = v.RegisterValidation("akun", func(fl validator.FieldLevel) bool {
		return IsKnownAccount(fl.Field().String())
	})
	return &Handler{logger: logger, propagator: propagator, validate: v, afterWrite: afterWrite}
}

// MountRoutes registers the transaction routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleSubmit)
	r.Get("/akun", h.handleAccounts)
}

// handleAccounts lists the fixed chart of accounts for the input form.
func (h *Handler) handleAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"akun": KnownAccounts()})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body tidak valid"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validasi gagal", "fields": validationMessages(err)})
		return
	}
	date, err := time.Parse("2006-01-02", req.Tanggal)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "format tanggal tidak valid, gunakan YYYY-MM-DD"})
		return
	}

	trx := Transaction{
		Date:          date,
		Description:   req.Keterangan,
		DebitAccount:  req.AkunDebet,
		DebitAmount:   req.NilaiDebet,
		CreditAccount: req.AkunKredit,
		CreditAmount:  req.NilaiKredit,
	}

	res, err := h.propagator.Propagate(r.Context(), trx)
	if err != nil {
		if errors.Is(err, ErrNoAmount) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": ErrNoAmount.Error()})
			return
		}
		h.logger.Error("propagate transaction", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": http.StatusText(http.StatusInternalServerError)})
		return
	}

	for _, hook := range h.afterWrite {
		if hook != nil {
			hook(res.Updated)
		}
	}

	resp := submitTransactionResponse{ID: res.ID, Diperbarui: res.Updated}
	if resp.Diperbarui == nil {
		resp.Diperbarui = []string{}
	}
	if len(res.Failures) > 0 {
		resp.Gagal = make(map[string]string, len(res.Failures))
		for name, ferr := range res.Failures {
			resp.Gagal[name] = ferr.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func validationMessages(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "wajib diisi"
		case "akun":
			fields[fe.Field()] = "akun tidak dikenal"
		case "gte":
			fields[fe.Field()] = "tidak boleh negatif"
		default:
			fields[fe.Field()] = "tidak valid"
		}
	}
	return fields
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
