package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Brownie44l1/photovocalizer/internal/app"
	"github.com/Brownie44l1/photovocalizer/internal/history"
	"github.com/Brownie44l1/photovocalizer/internal/model"
	"github.com/Brownie44l1/photovocalizer/internal/source"
)

type fakeClassifier struct {
	calls int
	err   error
}

func (f *fakeClassifier) Classify(input model.Tensor) (*model.Prediction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return model.NewPrediction(model.ConfidenceVector{0.1, 0.9, 0.05}), nil
}

type fakeSource struct {
	err error
}

func (f fakeSource) Acquire(ctx context.Context) (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, 10, 10)), nil
}

type fakeRecognizer struct {
	text string
}

func (f fakeRecognizer) Transcribe(pcm []byte) (string, error) { return f.text, nil }
func (f fakeRecognizer) Close()                                {}

type fakeHistory struct{}

func (fakeHistory) Recent(limit int) ([]history.Record, error) {
	return []history.Record{{ID: 1, Class: "Banana"}}, nil
}

func newTestRouter(c *fakeClassifier, opts Options) (http.Handler, *app.App) {
	a := app.New(app.Options{
		Classifier: c,
		Camera:     fakeSource{},
		Gallery:    fakeSource{err: source.ErrCanceled},
	})
	opts.App = a
	return Routes(NewHandler(opts), nil), a
}

func do(t *testing.T, h http.Handler, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(&fakeClassifier{}, Options{})
	rec := do(t, h, http.MethodGet, "/health", nil, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"image_loaded":false`) {
		t.Errorf("Unexpected body %s", rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func TestClassify_NoImage(t *testing.T) {
	c := &fakeClassifier{}
	h, _ := newTestRouter(c, Options{})

	rec := do(t, h, http.MethodPost, "/classify", nil, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", rec.Code)
	}
	var resp ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != "no_image" || resp.Message != "No image loaded" {
		t.Errorf("Unexpected error response %+v", resp)
	}
	if c.calls != 0 {
		t.Error("Model must not be invoked without an image")
	}
}

func TestCaptureThenClassify(t *testing.T) {
	h, _ := newTestRouter(&fakeClassifier{}, Options{})

	if rec := do(t, h, http.MethodPost, "/capture", nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("Capture: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec := do(t, h, http.MethodPost, "/classify", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Classify: expected 200, got %d", rec.Code)
	}
	var p model.Prediction
	json.Unmarshal(rec.Body.Bytes(), &p)
	if p.Class != "Banana" || p.Color != "#ffff00" {
		t.Errorf("Unexpected prediction %+v", p)
	}
}

func TestClassify_Failure(t *testing.T) {
	h, a := newTestRouter(&fakeClassifier{err: errors.New("boom")}, Options{})
	a.Load(image.NewRGBA(image.Rect(0, 0, 32, 32)), source.OriginGallery)

	rec := do(t, h, http.MethodPost, "/classify", nil, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "classification_failed") {
		t.Errorf("Unexpected body %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Error("Failure detail must not leak to the client")
	}
}

func TestPick_Canceled(t *testing.T) {
	h, _ := newTestRouter(&fakeClassifier{}, Options{})

	rec := do(t, h, http.MethodPost, "/pick", nil, "")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "canceled") {
		t.Errorf("Expected canceled 400, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestUploadImage(t *testing.T) {
	h, a := newTestRouter(&fakeClassifier{}, Options{})

	var img bytes.Buffer
	src := image.NewRGBA(image.Rect(0, 0, 64, 64))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	png.Encode(&img, src)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("image", "apple.png")
	fw.Write(img.Bytes())
	mw.Close()

	rec := do(t, h, http.MethodPost, "/image?origin=camera", body.Bytes(), mw.FormDataContentType())
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !a.HasImage() {
		t.Error("Expected uploaded image to be loaded")
	}

	rec = do(t, h, http.MethodPost, "/image?origin=fax", body.Bytes(), mw.FormDataContentType())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown origin, got %d", rec.Code)
	}
}

func TestPredict(t *testing.T) {
	c := &fakeClassifier{}
	h, _ := newTestRouter(c, Options{})

	short, _ := json.Marshal(model.PredictionRequest{Image: make([]float32, 10)})
	if rec := do(t, h, http.MethodPost, "/predict", short, "application/json"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for short tensor, got %d", rec.Code)
	}

	full, _ := json.Marshal(model.PredictionRequest{Image: make([]float32, model.TensorSize)})
	rec := do(t, h, http.MethodPost, "/predict", full, "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if c.calls != 1 {
		t.Errorf("Expected one model call, got %d", c.calls)
	}
}

func TestVoice(t *testing.T) {
	c := &fakeClassifier{}
	h, _ := newTestRouter(c, Options{})

	body := []byte(`{"transcript":"zrób zdjęcie"}`)
	rec := do(t, h, http.MethodPost, "/voice", body, "application/json")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"action":"capture"`) {
		t.Fatalf("Expected capture action, got %d %s", rec.Code, rec.Body.String())
	}

	body = []byte(`{"transcript":"klasyfikuj"}`)
	rec = do(t, h, http.MethodPost, "/voice", body, "application/json")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"class":"Banana"`) {
		t.Fatalf("Expected classification result, got %d %s", rec.Code, rec.Body.String())
	}
	if c.calls != 1 {
		t.Errorf("Expected one classification, got %d", c.calls)
	}
}

func TestVoiceAudio(t *testing.T) {
	h, _ := newTestRouter(&fakeClassifier{}, Options{})
	if rec := do(t, h, http.MethodPost, "/voice/audio", []byte{0, 0}, ""); rec.Code != http.StatusNotImplemented {
		t.Errorf("Expected 501 without recognizer, got %d", rec.Code)
	}

	h, _ = newTestRouter(&fakeClassifier{}, Options{Recognizer: fakeRecognizer{text: "klasyfikuj"}})
	rec := do(t, h, http.MethodPost, "/voice/audio", []byte{0, 0}, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 for classify without image, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestHistory(t *testing.T) {
	h, _ := newTestRouter(&fakeClassifier{}, Options{History: fakeHistory{}})

	rec := do(t, h, http.MethodGet, "/history?limit=5", nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Banana") {
		t.Errorf("Unexpected history response %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/history?limit=abc", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(&fakeClassifier{}, Options{})

	rec := do(t, h, http.MethodOptions, "/classify", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", rec.Code)
	}
}
