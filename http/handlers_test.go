package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"ckdcart/ml"
)

type fakeModel struct {
	label    string
	err      error
	features []float64
}

func (f *fakeModel) Predict(features []float64) (string, error) {
	f.features = features
	return f.label, f.err
}

func newTestMux(t *testing.T, model ml.Classifier, tree *ml.DecisionTree) (*http.ServeMux, *Handlers) {
	t.Helper()
	h, err := NewHandlers(Deps{Model: model, Tree: tree, Locale: "id"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mux := http.NewServeMux()
	RegisterHandlers(mux, h)
	return mux, h
}

func loadShippedTree(t *testing.T) *ml.DecisionTree {
	t.Helper()
	tree, err := ml.LoadModel("decision_tree", filepath.Join("..", "models", "cart_kidney-failure.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tree
}

func TestHealthHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(handleHealth)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	expected := `{"status":"ok"}`
	if rr.Body.String() != expected+"\n" && rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
	}
}

func TestInputPageRendersForm(t *testing.T) {
	mux, _ := newTestMux(t, &fakeModel{label: "ckd"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, name := range ml.FeatureNames {
		if !strings.Contains(body, `name="`+name+`"`) {
			t.Fatalf("form is missing field %s", name)
		}
	}
	if !strings.Contains(body, "Umur (Tahun)") {
		t.Fatalf("expected Indonesian labels")
	}
	if strings.Contains(body, `id="result"`) {
		t.Fatalf("no result expected before submit")
	}
}

func submitForm(t *testing.T, mux *http.ServeMux, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	values.Set("page", "Input")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSubmitAlwaysCKDShowsWarning(t *testing.T) {
	model := &fakeModel{label: "ckd"}
	mux, h := newTestMux(t, model, nil)

	w := submitForm(t, mux, url.Values{"age": {"61"}, "htn": {"Yes"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "result-red") || !strings.Contains(body, "Terdiagnosis Gagal Ginjal Kronis") {
		t.Fatalf("expected red warning, got %s", body)
	}
	if len(model.features) != ml.NumFeatures {
		t.Fatalf("expected %d features, got %d", ml.NumFeatures, len(model.features))
	}
	if model.features[0] != 61 || model.features[ml.FeatureIndex("htn")] != 1 {
		t.Fatalf("unexpected features: %v", model.features)
	}
	if !strings.Contains(body, `value="61"`) {
		t.Fatalf("expected submitted value to be kept in the form")
	}
	if got := h.counter.Snapshot().ByLabel["ckd"]; got != 1 {
		t.Fatalf("expected one ckd prediction, got %d", got)
	}
}

func TestSubmitAlwaysNotCKDShowsSuccess(t *testing.T) {
	mux, _ := newTestMux(t, &fakeModel{label: "notckd"}, nil)

	w := submitForm(t, mux, url.Values{})
	body := w.Body.String()
	if !strings.Contains(body, "result-green") || !strings.Contains(body, "Tidak Terdiagnosis") {
		t.Fatalf("expected green label, got %s", body)
	}
}

func TestSubmitShapeMismatchFails(t *testing.T) {
	mux, h := newTestMux(t, &fakeModel{err: ml.ErrShapeMismatch}, nil)

	w := submitForm(t, mux, url.Values{})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if h.counter.Snapshot().Failures != 1 {
		t.Fatalf("expected failure to be counted")
	}
}

func TestSubmitEnglishResult(t *testing.T) {
	mux, _ := newTestMux(t, &fakeModel{label: "ckd"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/?lang=en", strings.NewReader(url.Values{"page": {"Input"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if body := w.Body.String(); !strings.Contains(body, "Diagnosed with Chronic Kidney Disease") {
		t.Fatalf("expected English result text")
	}
}

func TestInputPageEnglish(t *testing.T) {
	mux, _ := newTestMux(t, &fakeModel{label: "ckd"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "Age (years)") || !strings.Contains(body, `lang="en"`) {
		t.Fatalf("expected English page")
	}
	if !strings.Contains(body, "Packed Cell Volume (%)") {
		t.Fatalf("expected literal percent sign in label")
	}
}

func TestConfiguredLocaleBeatsAcceptLanguage(t *testing.T) {
	mux, _ := newTestMux(t, &fakeModel{label: "ckd"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if body := w.Body.String(); !strings.Contains(body, "Umur (Tahun)") {
		t.Fatalf("expected Indonesian page for configured locale")
	}
}

func TestAcceptLanguageWithoutLocale(t *testing.T) {
	h, err := NewHandlers(Deps{Model: &fakeModel{label: "ckd"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mux := http.NewServeMux()
	RegisterHandlers(mux, h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if body := w.Body.String(); !strings.Contains(body, "Age (years)") {
		t.Fatalf("expected English page from Accept-Language")
	}
}

func TestVisualisasiPage(t *testing.T) {
	tree := loadShippedTree(t)
	mux, _ := newTestMux(t, tree, tree)

	req := httptest.NewRequest(http.MethodGet, "/?page=Visualisasi", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `src="/tree.svg?filled=true"`) {
		t.Fatalf("expected tree image")
	}
	if strings.Contains(body, "<form") {
		t.Fatalf("visualisation page has no inputs")
	}
}

func TestTreeSVGIsCached(t *testing.T) {
	tree := loadShippedTree(t)
	mux, h := newTestMux(t, tree, tree)

	var first string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/tree.svg", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
			t.Fatalf("unexpected content type %s", ct)
		}
		if i == 0 {
			first = w.Body.String()
		} else if w.Body.String() != first {
			t.Fatalf("expected identical renders")
		}
	}
	if !strings.Contains(first, "class = ckd") {
		t.Fatalf("expected node labels in SVG")
	}
	if h.svgs.Len() != 1 {
		t.Fatalf("expected one cached render, got %d", h.svgs.Len())
	}
}

func TestTreeSVGWithoutTree(t *testing.T) {
	mux, _ := newTestMux(t, &fakeModel{label: "ckd"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/tree.svg", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestParsePage(t *testing.T) {
	cases := map[string]Page{
		"Input":       PageInput,
		"Visualisasi": PageVisualisasi,
		"":            PageInput,
		"visualisasi": PageInput,
	}
	for in, want := range cases {
		if got := ParsePage(in); got != want {
			t.Fatalf("ParsePage(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewHandlersRequiresModel(t *testing.T) {
	if _, err := NewHandlers(Deps{}); err == nil {
		t.Fatal("expected error without model")
	}
}
