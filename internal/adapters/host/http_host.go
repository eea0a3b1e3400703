package host

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/formkeeper/spam-blocker/internal/core"
	"github.com/formkeeper/spam-blocker/internal/pipeline"
	"go.uber.org/zap"
)

// HTTPHost is a minimal HTTP front for the form pipeline. It converts a
// form POST into a submission record and drives every pipeline phase. The
// core itself has no network surface; this host only exists so the daemon
// has something to serve.
type HTTPHost struct {
	pipeline   *pipeline.Pipeline
	logger     *zap.Logger
	listenAddr string
	notifyTo   []string
	server     *http.Server
}

// NewHTTPHost creates a new HTTP form host
func NewHTTPHost(p *pipeline.Pipeline, logger *zap.Logger, listenAddr string, notifyTo []string) *HTTPHost {
	return &HTTPHost{
		pipeline:   p,
		logger:     logger,
		listenAddr: listenAddr,
		notifyTo:   notifyTo,
	}
}

// Start starts the HTTP server
func (h *HTTPHost) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions", h.handleSubmission)

	h.server = &http.Server{
		Addr:         h.listenAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	h.logger.Info("Form host starting", zap.String("address", h.listenAddr))

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (h *HTTPHost) Stop() error {
	if h.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return h.server.Shutdown(ctx)
}

func (h *HTTPHost) handleSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form data", http.StatusBadRequest)
		return
	}

	formID := r.PostForm.Get("form_id")
	record := recordFromForm(r.PostForm)

	remoteAddr := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		remoteAddr = host
	}

	result, err := h.pipeline.Process(r.Context(), remoteAddr, formID, record, h.notifications(record))
	if err != nil {
		h.logger.Error("Failed to process submission", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !result.Accepted {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": result.Message,
		})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}

// recordFromForm builds a submission record from the posted values, in a
// stable key order
func recordFromForm(values map[string][]string) *core.SubmissionRecord {
	keys := make([]string, 0, len(values))
	for key := range values {
		if key == "form_id" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	record := &core.SubmissionRecord{}
	for _, key := range keys {
		value := ""
		if len(values[key]) > 0 {
			value = values[key][0]
		}
		fieldType := "text"
		if key == "message" {
			fieldType = "textarea"
		}
		record.Fields = append(record.Fields, core.FormField{
			Key:   key,
			ID:    key,
			Type:  fieldType,
			Value: value,
		})
	}
	return record
}

// notifications renders the operator notification for a submission
func (h *HTTPHost) notifications(record *core.SubmissionRecord) []*core.MailMessage {
	if len(h.notifyTo) == 0 {
		return nil
	}

	var body strings.Builder
	for _, field := range record.Fields {
		body.WriteString(field.Key)
		body.WriteString(": ")
		body.WriteString(field.Value)
		body.WriteString("\n")
	}

	return []*core.MailMessage{{
		To:      h.notifyTo,
		Subject: "New form submission",
		Body:    body.String(),
	}}
}
