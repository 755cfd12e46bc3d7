package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lembarbuku/lembarbuku/internal/ledger"
	"github.com/lembarbuku/lembarbuku/internal/shared"
)

// Handler serves the report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	cache   *Cache
	now     func() time.Time
}

// NewHandler constructs the report handler.
func NewHandler(logger *slog.Logger, service *Service, cache *Cache) *Handler {
	return &Handler{logger: logger, service: service, cache: cache, now: time.Now}
}

// MountRoutes registers report routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Route("/buku-besar", func(r chi.Router) {
		r.Get("/", h.handleLedgerList)
		r.Route("/{akun}", h.mountTableRoutes)
	})
	r.Route("/{kind}", h.mountTableRoutes)
}

func (h *Handler) mountTableRoutes(r chi.Router) {
	r.Post("/", h.handleInit)
	r.Get("/", h.handleGet)
	r.Get("/export.csv", h.handleExport)
	r.Post("/rows", h.handleAddRow)
	r.Put("/rows/{index}", h.handleUpdateRow)
	r.Delete("/rows/{index}", h.handleDeleteRow)
}

// targetFromRequest resolves kind and, for per-account ledgers, the account
// from the URL.
func targetFromRequest(r *http.Request) (ledger.Kind, string, error) {
	if raw := chi.URLParam(r, "akun"); raw != "" {
		akun, err := url.PathUnescape(raw)
		if err != nil {
			akun = raw
		}
		return ledger.KindGeneralLedger, akun, nil
	}
	kind, err := ledger.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", "", err
	}
	if kind == ledger.KindGeneralLedger {
		return "", "", fmt.Errorf("buku besar memerlukan akun")
	}
	return kind, "", nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"laporan": h.service.List(r.Context())})
}

func (h *Handler) handleLedgerList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"akun": h.service.LedgerList(r.Context())})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	kind, akun, err := targetFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	cacheSuffix := string(kind)
	if akun != "" {
		cacheSuffix += ":" + ledger.NormalizeKey(akun)
	}
	key, err := h.cache.BuildKey(r.Context(), "laporan", cacheSuffix)
	if err != nil {
		h.logger.Warn("cache key", slog.Any("error", err))
		key = "laporan:" + cacheSuffix
	}

	var view View
	err = h.cache.FetchJSON(r.Context(), key, &view, func(ctx context.Context) (interface{}, error) {
		value, err, _ := singleflightView(ctx, key, func(ctx context.Context) (interface{}, error) {
			return h.service.Get(ctx, kind, akun)
		})
		return value, err
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleInit(w http.ResponseWriter, r *http.Request) {
	kind, akun, err := targetFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.Init(r.Context(), kind, akun); err != nil {
		h.logger.Error("init laporan", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": http.StatusText(http.StatusInternalServerError)})
		return
	}
	h.bustCache(r)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "dibuat"})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, akun, err := targetFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	view, err := h.service.Get(r.Context(), kind, akun)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	filename := string(kind)
	if akun != "" {
		filename += "_" + ledger.NormalizeKey(akun)
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
	if err := writeViewCSV(w, view, h.now()); err != nil {
		h.logger.Error("export laporan", slog.Any("error", err))
	}
}

type rowRequest struct {
	Baris []string `json:"baris"`
}

func (h *Handler) handleAddRow(w http.ResponseWriter, r *http.Request) {
	kind, akun, err := targetFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	var req rowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body tidak valid"})
		return
	}
	if err := h.service.AddRow(r.Context(), kind, akun, req.Baris); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.bustCache(r)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ditambahkan"})
}

func (h *Handler) handleUpdateRow(w http.ResponseWriter, r *http.Request) {
	kind, akun, err := targetFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "indeks tidak valid"})
		return
	}
	var req rowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body tidak valid"})
		return
	}
	if err := h.service.UpdateRow(r.Context(), kind, akun, index, req.Baris); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.bustCache(r)
	writeJSON(w, http.StatusOK, map[string]string{"status": "diperbarui"})
}

func (h *Handler) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	kind, akun, err := targetFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "indeks tidak valid"})
		return
	}
	if err := h.service.DeleteRow(r.Context(), kind, akun, index); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.bustCache(r)
	writeJSON(w, http.StatusOK, map[string]string{"status": "dihapus"})
}

func (h *Handler) bustCache(r *http.Request) {
	if err := h.cache.Bump(r.Context()); err != nil {
		h.logger.Warn("cache bump", slog.Any("error", err))
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrReportNotInitialized):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "laporan belum dibuat"})
	case errors.Is(err, shared.ErrRowOutOfRange):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "baris tidak ditemukan"})
	default:
		h.logger.Error("laporan", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": http.StatusText(http.StatusInternalServerError)})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
