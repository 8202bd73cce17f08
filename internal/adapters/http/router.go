package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codespaze/resume-builder/internal/core/domain"
	"github.com/codespaze/resume-builder/internal/core/ports"
	"github.com/codespaze/resume-builder/internal/observability/metrics"
)

type Router struct {
	extractor ports.ResumeExtractor
	generator ports.ContentGenerator
	resumes   ports.ResumeService

	serverMetrics  *metrics.HTTPServerMetrics
	maxUploadBytes int64
	serviceName    string
}

func NewRouter(
	extractor ports.ResumeExtractor,
	generator ports.ContentGenerator,
	resumes ports.ResumeService,
	serverMetrics *metrics.HTTPServerMetrics,
	maxUploadBytes int64,
	serviceName string,
) *Router {
	return &Router{
		extractor:      extractor,
		generator:      generator,
		resumes:        resumes,
		serverMetrics:  serverMetrics,
		maxUploadBytes: maxUploadBytes,
		serviceName:    serviceName,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/resumes/extract", rt.extractResume)
	mux.HandleFunc("/v1/ai/generate", rt.generateContent)
	mux.HandleFunc("/v1/ai/suggestions", rt.generateSuggestions)
	mux.HandleFunc("/v1/resumes", rt.saveResume)
	mux.HandleFunc("/v1/resumes/", rt.getResume)
	if rt.serverMetrics != nil {
		mux.Handle("/metrics", rt.serverMetrics.Handler())
	}

	var handler http.Handler = mux
	if rt.serverMetrics != nil {
		handler = rt.serverMetrics.Middleware(rt.serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) extractResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if rt.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	userID := strings.TrimSpace(r.FormValue("user_id"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form field 'user_id' is required"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unable to read uploaded file"})
		return
	}

	mediaType := fileHeader.Header.Get("Content-Type")
	start := time.Now()
	resume, err := rt.extractor.ExtractAndNormalize(r.Context(), userID, fileHeader.Filename, mediaType, data)
	if rt.serverMetrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		rt.serverMetrics.RecordExtraction(rt.serviceName, mediaType, status, time.Since(start))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.serverMetrics != nil {
		rt.serverMetrics.RecordResumeVersion(rt.serviceName, "extracted", resume.CompletionPercentage)
	}

	writeJSON(w, http.StatusOK, resume)
}

func (rt *Router) generateContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Provider string                 `json:"provider"`
		Request  domain.ProviderRequest `json:"request"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	resp, err := rt.generator.GenerateContent(r.Context(), req.Request, domain.ProviderName(req.Provider))
	if rt.serverMetrics != nil {
		if err != nil {
			rt.serverMetrics.RecordProviderAttempt(rt.serviceName, req.Provider, "error")
		} else {
			rt.serverMetrics.RecordProviderAttempt(rt.serviceName, string(resp.Provider), "success")
			if resp.Fallback {
				rt.serverMetrics.RecordProviderFallback(rt.serviceName, string(resp.OriginalProvider), string(resp.Provider))
			}
		}
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) generateSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Provider string                 `json:"provider"`
		Resume   domain.CanonicalResume `json:"resume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	suggestions, err := rt.generator.GenerateSuggestions(r.Context(), req.Resume, domain.ProviderName(req.Provider))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (rt *Router) saveResume(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodGet:
		rt.listResumes(w, r)
		return
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		UserID     string                 `json:"user_id"`
		TemplateID string                 `json:"template_id"`
		Resume     domain.CanonicalResume `json:"resume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	version, err := rt.resumes.Save(r.Context(), req.UserID, req.TemplateID, req.Resume)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.serverMetrics != nil {
		rt.serverMetrics.RecordResumeVersion(rt.serviceName, "saved", version.Resume.CompletionPercentage)
	}
	writeJSON(w, http.StatusCreated, version)
}

func (rt *Router) listResumes(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'user_id' is required"})
		return
	}

	versions, err := rt.resumes.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (rt *Router) getResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/resumes/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "resume id is required"})
		return
	}

	version, err := rt.resumes.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, version)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	writeJSON(w, status, map[string]string{"error": clientMessage(err, status)})
}
