package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pavelanni/eduimpact/internal/analysis"
	"github.com/pavelanni/eduimpact/internal/chat"
	"github.com/pavelanni/eduimpact/internal/classify"
	"github.com/pavelanni/eduimpact/internal/dataset"
	"github.com/pavelanni/eduimpact/internal/handler/views"
	"github.com/pavelanni/eduimpact/internal/llm"
	"github.com/pavelanni/eduimpact/internal/markdown"
	"github.com/pavelanni/eduimpact/internal/model"
	"github.com/pavelanni/eduimpact/internal/predictor"
)

// maxChatBody caps the JSON body accepted by /chat.
const maxChatBody = 64 << 10

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	predictor predictor.Predictor
	analyzer  *analysis.Analyzer
	chat      *chat.Proxy
	archive   *dataset.Archive
	logger    *slog.Logger
}

// New creates a new Handler.
func New(p predictor.Predictor, a *analysis.Analyzer, c *chat.Proxy, ar *dataset.Archive, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{predictor: p, analyzer: a, chat: c, archive: ar, logger: logger}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/getanalysis", h.handleAnalysisForm)
	r.Post("/chat", h.handleChat)
	r.Get("/archive", h.handleArchive)
	r.Get("/download_csv", h.handleDownload)
	r.Post("/predict", h.handlePredict)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.WelcomePage())
}

func (h *Handler) handleAnalysisForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.AnalysisPage())
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("request_id", middleware.GetReqID(r.Context()))

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid form: %v", err))
		return
	}
	profile, err := model.ParseProfile(r.PostForm.Get)
	if err != nil {
		log.Warn("rejected profile", "error", err)
		h.renderError(w, r, statusFor(err), err.Error())
		return
	}

	scores, err := h.predictor.Predict(profile.Features())
	if err != nil {
		log.Error("predict", "error", err)
		h.renderError(w, r, statusFor(err), fmt.Sprintf("prediction failed: %v", err))
		return
	}

	category := classify.Classify(scores)
	res := h.analyzer.Analyze(r.Context(), profile, scores, category)
	h.render(w, r, http.StatusOK, views.ResultPage(res))
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
	HTML     string `json:"html"`
	Fallback bool   `json:"fallback,omitempty"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxChatBody)).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "No JSON data provided")
		return
	}

	reply, err := h.chat.Reply(r.Context(), req.Message)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("chat", "error", err, "request_id", middleware.GetReqID(r.Context()))
		}
		writeJSONError(w, status, chatErrorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: reply.Text,
		HTML:     string(markdown.ToHTML(reply.Text)),
		Fallback: reply.Fallback,
	})
}

func chatErrorMessage(err error) string {
	switch {
	case errors.Is(err, chat.ErrValidation):
		return "No message provided"
	case errors.Is(err, llm.ErrNotConfigured):
		return "AI service is not configured. Please contact administrator to set up the API key."
	case errors.Is(err, llm.ErrUnavailable):
		return fmt.Sprintf("AI service is currently unavailable: %v. Please try again later.", llm.Cause(err))
	default:
		return fmt.Sprintf("Chat service error: %v", err)
	}
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		n = 1
	}

	p, err := h.archive.Page(n)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			http.Error(w, "CSV file not found", status)
			return
		}
		h.logger.Error("archive", "error", err)
		http.Error(w, err.Error(), status)
		return
	}
	h.render(w, r, http.StatusOK, views.ArchivePage(p))
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	f, err := h.archive.Open()
	if err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			writeJSONError(w, status, "File not found")
			return
		}
		h.logger.Error("download", "error", err)
		writeJSONError(w, status, err.Error())
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dataset.DownloadName))
	w.Header().Set("ETag", f.ETag)
	http.ServeContent(w, r, dataset.DownloadName, f.ModTime, f)
}
