package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Brownie44l1/photovocalizer/internal/app"
	"github.com/Brownie44l1/photovocalizer/internal/history"
	"github.com/Brownie44l1/photovocalizer/internal/logger"
	"github.com/Brownie44l1/photovocalizer/internal/model"
	"github.com/Brownie44l1/photovocalizer/internal/source"
	"github.com/Brownie44l1/photovocalizer/internal/voice"
)

// HistoryReader lists stored classifications.
type HistoryReader interface {
	Recent(limit int) ([]history.Record, error)
}

// Options configures a Handler. Recognizer and History may be nil, which
// disables /voice/audio and /history.
type Options struct {
	App        *app.App
	Recognizer voice.Recognizer
	History    HistoryReader
	Logger     *logger.Logger
}

type Handler struct {
	app        *app.App
	recognizer voice.Recognizer
	history    HistoryReader
	logger     *logger.Logger
}

func NewHandler(opts Options) *Handler {
	h := &Handler{
		app:        opts.App,
		recognizer: opts.Recognizer,
		history:    opts.History,
		logger:     opts.Logger,
	}
	if h.logger == nil {
		h.logger = logger.Discard()
	}
	return h
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func sendErrorResponse(w http.ResponseWriter, code, message string, status int) {
	sendJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sendActionError maps app errors to HTTP statuses.
func (h *Handler) sendActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrNoImage):
		sendErrorResponse(w, "no_image", app.MsgNoImage, http.StatusConflict)
	case errors.Is(err, model.ErrClassificationFailed):
		sendErrorResponse(w, "classification_failed", app.MsgClassificationFailed, http.StatusInternalServerError)
	case errors.Is(err, source.ErrCanceled):
		sendErrorResponse(w, "canceled", err.Error(), http.StatusBadRequest)
	case errors.Is(err, source.ErrUnavailable):
		sendErrorResponse(w, "source_unavailable", err.Error(), http.StatusServiceUnavailable)
	default:
		h.logger.Error("Request failed: %v", err)
		sendErrorResponse(w, "internal_error", "Request failed", http.StatusInternalServerError)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"image_loaded": h.app.HasImage(),
	})
}

// Predict classifies a raw tensor without touching the loaded image.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendErrorResponse(w, "invalid_request", "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req model.PredictionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		sendErrorResponse(w, "invalid_request", "Invalid JSON", http.StatusBadRequest)
		return
	}

	if len(req.Image) != model.TensorSize {
		sendErrorResponse(w, "invalid_request",
			fmt.Sprintf("Expected %d values, got %d", model.TensorSize, len(req.Image)),
			http.StatusBadRequest)
		return
	}

	result, err := h.app.ClassifyTensor(req.Image)
	if err != nil {
		h.sendActionError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, result)
}

// UploadImage loads an image sent as the multipart field "image". The origin
// query parameter (camera or gallery) selects whether it is center-cropped.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	origin, err := source.ParseOrigin(r.URL.Query().Get("origin"))
	if err != nil {
		sendErrorResponse(w, "invalid_request", err.Error(), http.StatusBadRequest)
		return
	}

	// Parse multipart form (10MB max)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		sendErrorResponse(w, "invalid_request", "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		sendErrorResponse(w, "invalid_request", "No image file provided. Use 'image' as the form field name", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := source.Decode(file)
	if err != nil {
		sendErrorResponse(w, "invalid_image", "Invalid image format. Supported: JPEG, PNG, GIF, BMP, TIFF", http.StatusBadRequest)
		return
	}

	h.logger.Info("Received file: %s, size: %d bytes", header.Filename, header.Size)
	h.app.Load(img, origin)
	sendJSON(w, http.StatusOK, map[string]string{"status": "loaded", "origin": string(origin)})
}

func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Capture(r.Context()); err != nil {
		h.sendActionError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"status": "loaded", "origin": string(source.OriginCamera)})
}

func (h *Handler) Pick(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Pick(r.Context()); err != nil {
		h.sendActionError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"status": "loaded", "origin": string(source.OriginGallery)})
}

func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	prediction, err := h.app.Classify()
	if err != nil {
		h.sendActionError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, prediction)
}

type VoiceRequest struct {
	Transcript string `json:"transcript"`
}

func (h *Handler) Voice(w http.ResponseWriter, r *http.Request) {
	var req VoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "invalid_request", "Invalid JSON", http.StatusBadRequest)
		return
	}
	h.runTranscript(w, r, req.Transcript)
}

// VoiceAudio transcribes a PCM16 16 kHz mono body and runs the command.
func (h *Handler) VoiceAudio(w http.ResponseWriter, r *http.Request) {
	if h.recognizer == nil {
		sendErrorResponse(w, "not_configured", "Speech recognition is not configured", http.StatusNotImplemented)
		return
	}

	pcm, err := io.ReadAll(io.LimitReader(r.Body, 10<<20))
	if err != nil {
		sendErrorResponse(w, "invalid_request", "Failed to read request body", http.StatusBadRequest)
		return
	}

	transcript, err := h.recognizer.Transcribe(pcm)
	if err != nil {
		h.logger.Error("Transcription error: %v", err)
		sendErrorResponse(w, "recognition_failed", "Speech recognition failed", http.StatusInternalServerError)
		return
	}
	h.runTranscript(w, r, transcript)
}

func (h *Handler) runTranscript(w http.ResponseWriter, r *http.Request, transcript string) {
	result, err := h.app.HandleTranscript(r.Context(), transcript)
	if err != nil {
		h.sendActionError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, result)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		sendErrorResponse(w, "not_configured", "History is not configured", http.StatusNotImplemented)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			sendErrorResponse(w, "invalid_request", "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.history.Recent(limit)
	if err != nil {
		h.logger.Error("History error: %v", err)
		sendErrorResponse(w, "internal_error", "Failed to read history", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	sendJSON(w, http.StatusOK, records)
}
