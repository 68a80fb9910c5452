package vertextext

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var querySchema = mustSchema(`{
	"type": "object",
	"properties": {
		"query": {"type": "string"}
	},
	"required": ["query"]
}`)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}

type Handler struct {
	svc Service
	log *zap.Logger
}

func NewHandler(svc Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Handle accepts {"query": string} and always answers 200 with the envelope.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "could not read request body")
		return
	}

	if detail := validateQuery(body); detail != "" {
		h.log.Debug("rejected request", zap.String("path", r.URL.Path), zap.String("detail", detail))
		writeDetail(w, http.StatusUnprocessableEntity, detail)
		return
	}

	var payload struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid json")
		return
	}

	env := h.svc.Handle(r.Context(), payload.Query)
	writeJSON(w, http.StatusOK, env)
}

func validateQuery(body []byte) string {
	result, err := querySchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return "invalid json"
	}
	if result.Valid() {
		return ""
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}

// Recoverer turns a panic escaping a handler into 500 {"detail": ...}.
func Recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("handler panic", zap.String("path", r.URL.Path), zap.Any("panic", rec))
					writeDetail(w, http.StatusInternalServerError, fmt.Sprint(rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
