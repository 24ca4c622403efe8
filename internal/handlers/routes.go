package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Routes registers every endpoint. events serves the websocket stream and
// may be nil.
func Routes(h *Handler, events http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(enableCORS)

	get := []string{http.MethodGet, http.MethodOptions}
	post := []string{http.MethodPost, http.MethodOptions}

	r.HandleFunc("/health", h.Health).Methods(get...)
	r.HandleFunc("/history", h.History).Methods(get...)
	r.HandleFunc("/predict", h.Predict).Methods(post...)
	r.HandleFunc("/image", h.UploadImage).Methods(post...)
	r.HandleFunc("/capture", h.Capture).Methods(post...)
	r.HandleFunc("/pick", h.Pick).Methods(post...)
	r.HandleFunc("/classify", h.Classify).Methods(post...)
	r.HandleFunc("/voice", h.Voice).Methods(post...)
	r.HandleFunc("/voice/audio", h.VoiceAudio).Methods(post...)
	if events != nil {
		r.Handle("/ws", events).Methods(http.MethodGet)
	}

	return r
}
