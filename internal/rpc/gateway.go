package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"

	"go.klb.dev/supaclipboard/internal/entry"
)

// MaxCopySize is the largest body accepted by POST /v1/copy (16 MiB).
const MaxCopySize = 16 * 1024 * 1024

// NewGateway returns the HTTP/JSON mux:
//
//	GET  /v1/history          clipboard history as JSON
//	GET  /v1/paste            clipboard content, Content-Type set to its MIME type
//	POST /v1/copy?mime=auto   copy the request body
func NewGateway(c Clipboard) (*gwruntime.ServeMux, error) {
	mux := gwruntime.NewServeMux()

	routes := []struct {
		method, path string
		h            gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/v1/history", func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
			writeJSON(w, http.StatusOK, historyItems(c.History()))
		}},
		{http.MethodGet, "/v1/paste", func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
			e := c.Paste()
			if e == nil {
				http.Error(w, "nothing to paste", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", e.MIME)
			_, _ = w.Write(e.Data)
		}},
		{http.MethodPost, "/v1/copy", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
			data, err := io.ReadAll(io.LimitReader(r.Body, MaxCopySize+1))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if len(data) > MaxCopySize {
				http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
				return
			}
			mime := r.URL.Query().Get("mime")
			if mime == "" {
				mime = "auto"
			}
			e, err := entry.ForMIME(mime, data)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"ok": c.CopyEntry(e)})
		}},
	}

	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.path, rt.h); err != nil {
			return nil, fmt.Errorf("register %s %s: %w", rt.method, rt.path, err)
		}
	}
	return mux, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("http response write failed", "err", err)
	}
}
