package reports

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lembarbuku/lembarbuku/internal/ledger"
	"github.com/lembarbuku/lembarbuku/internal/platform/csvdb"
)

func newReportServer(t *testing.T) (*csvdb.Store, *httptest.Server) {
	t.Helper()
	store := csvdb.New(t.TempDir())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	handler := NewHandler(logger, NewService(store, logger), NewCache(client, time.Minute))
	r := chi.NewRouter()
	r.Route("/reports", handler.MountRoutes)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return store, srv
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestReportListEndpoint(t *testing.T) {
	_, srv := newReportServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/reports/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Laporan []Status `json:"laporan"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Len(t, payload.Laporan, 9)
}

func TestReportGetBeforeInit(t *testing.T) {
	_, srv := newReportServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/reports/neraca-saldo", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "laporan belum dibuat", payload["error"])
}

func TestReportUnknownKind(t *testing.T) {
	_, srv := newReportServer(t)
	resp := doRequest(t, http.MethodGet, srv.URL+"/reports/tidak-ada", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportInitThenGet(t *testing.T) {
	_, srv := newReportServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/reports/neraca-saldo", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, srv.URL+"/reports/neraca-saldo", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "Neraca Saldo", view.Laporan)
	assert.Equal(t, []string{"Nama Akun", "Debet", "Kredit"}, view.Kolom)
	assert.Empty(t, view.Baris)
}

func TestReportRowLifecycleBustsCache(t *testing.T) {
	_, srv := newReportServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/reports/neraca-saldo", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Prime the cache with the empty view.
	resp = doRequest(t, http.MethodGet, srv.URL+"/reports/neraca-saldo", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, srv.URL+"/reports/neraca-saldo/rows", `{"baris":["Kas","100","0"]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The mutation bumped the version, so the stale cached view is gone.
	resp = doRequest(t, http.MethodGet, srv.URL+"/reports/neraca-saldo", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.Len(t, view.Baris, 1)

	resp = doRequest(t, http.MethodPut, srv.URL+"/reports/neraca-saldo/rows/0", `{"baris":["Kas","250","0"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodDelete, srv.URL+"/reports/neraca-saldo/rows/0", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodDelete, srv.URL+"/reports/neraca-saldo/rows/0", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPerAccountLedgerEndpoints(t *testing.T) {
	store, srv := newReportServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/reports/buku-besar/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Akun []LedgerStatus `json:"akun"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list.Akun, 13)

	resp = doRequest(t, http.MethodPost, srv.URL+"/reports/buku-besar/Kas", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, store.Exists(ledger.LedgerFile("kas")))

	resp = doRequest(t, http.MethodGet, srv.URL+"/reports/buku-besar/Kas", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "Buku Besar (Kas)", view.Laporan)
}

func TestReportExportCSV(t *testing.T) {
	_, srv := newReportServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/reports/jurnal-umum", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doRequest(t, http.MethodPost, srv.URL+"/reports/jurnal-umum/rows", `{"baris":["15/03/2026","Kas","100","0"]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, srv.URL+"/reports/jurnal-umum/export.csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "jurnal-umum.csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("# Jurnal Umum\r\n")))
	assert.Contains(t, string(body), "Tanggal,Keterangan,Debet,Kredit\r\n")
	assert.Contains(t, string(body), "15/03/2026,Kas,100,0\r\n")
}
