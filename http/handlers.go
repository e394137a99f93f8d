package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"ckdcart/i18n"
	"ckdcart/ml"
	"ckdcart/monitoring"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Deps are the long-lived values shared by every request. Model and Tree
// are normally the same loaded artifact; Tree may be nil when only
// predictions are served.
type Deps struct {
	Model           ml.Classifier
	Tree            *ml.DecisionTree
	Counter         *monitoring.PredictionCounter
	Logger          *zap.Logger
	Locale          string
	RenderCacheSize int
}

type Handlers struct {
	model   ml.Classifier
	tree    *ml.DecisionTree
	counter *monitoring.PredictionCounter
	logger  *zap.Logger
	locale  string
	svgs    *lru.Cache[string, []byte]
}

func NewHandlers(d Deps) (*Handlers, error) {
	if d.Model == nil {
		return nil, errors.New("model is required")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Counter == nil {
		d.Counter = monitoring.NewPredictionCounter()
	}
	if d.RenderCacheSize <= 0 {
		d.RenderCacheSize = 8
	}
	svgs, err := lru.New[string, []byte](d.RenderCacheSize)
	if err != nil {
		return nil, err
	}
	return &Handlers{
		model:   d.Model,
		tree:    d.Tree,
		counter: d.Counter,
		logger:  d.Logger,
		locale:  d.Locale,
		svgs:    svgs,
	}, nil
}

func RegisterHandlers(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /{$}", h.handleApp)
	mux.HandleFunc("POST /{$}", h.handleApp)
	mux.HandleFunc("GET /tree.svg", h.handleTreeSVG)
	mux.HandleFunc("GET /api/health", handleHealth)
	RegisterAPIHandlers(mux, h)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleApp serves both views. Every request renders the selected page
// from scratch; nothing is kept between requests.
func (h *Handlers) handleApp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	page := ParsePage(r.Form.Get("page"))
	data := h.newPageData(r, page)

	switch page {
	case PageInput:
		if err := h.inputPage(r, data); err != nil {
			h.logger.Error("prediction failed", zap.Error(err), zap.String("request_id", GetRequestID(r.Context())))
			http.Error(w, "prediction failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
	case PageVisualisasi:
		data.HasTree = h.tree != nil
	}

	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "app.html", data); err != nil {
		h.logger.Error("render page", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// inputPage fills the form and, on submit, the prediction result.
func (h *Handlers) inputPage(r *http.Request, data *pageData) error {
	form := ml.DefaultPatientForm()
	if r.Method == http.MethodPost {
		form = ml.ParsePatientForm(r.PostForm)
	}
	data.Fields = buildFields(form, data.T)

	if r.Method != http.MethodPost {
		return nil
	}
	vector, err := ml.Encode(form)
	if err != nil {
		return err
	}
	diagnosis, err := h.diagnose(vector)
	if err != nil {
		return err
	}
	diagnosis = ml.DiagnosisIn(diagnosis.Label, data.Lang)
	data.Result = &resultView{
		Text:  diagnosis.Text,
		Color: diagnosis.Color,
	}
	return nil
}

func (h *Handlers) diagnose(vector ml.FeatureVector) (ml.Diagnosis, error) {
	diagnosis, err := ml.Diagnose(h.model, vector)
	if err != nil {
		h.counter.RecordFailure()
		return ml.Diagnosis{}, err
	}
	h.counter.Record(diagnosis.Label)
	return diagnosis, nil
}

func (h *Handlers) handleTreeSVG(w http.ResponseWriter, r *http.Request) {
	if h.tree == nil {
		http.Error(w, "no tree model loaded", http.StatusServiceUnavailable)
		return
	}
	opts := ml.RenderOptions{Filled: true}
	if v := r.URL.Query().Get("filled"); v != "" {
		if filled, err := strconv.ParseBool(v); err == nil {
			opts.Filled = filled
		}
	}

	payload, err := h.treeSVG(opts)
	if err != nil {
		h.logger.Error("render tree", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(payload)
}

// treeSVG renders once per option set; the model never changes after load.
func (h *Handlers) treeSVG(opts ml.RenderOptions) ([]byte, error) {
	key := opts.CacheKey()
	if payload, ok := h.svgs.Get(key); ok {
		return payload, nil
	}
	var buf bytes.Buffer
	if err := ml.RenderTree(&buf, h.tree, opts); err != nil {
		return nil, err
	}
	payload := buf.Bytes()
	h.svgs.Add(key, payload)
	return payload, nil
}

// language picks ?lang=, then the configured locale. Accept-Language is only
// consulted when no locale is configured.
func (h *Handlers) language(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	if h.locale != "" {
		return h.locale
	}
	return r.Header.Get("Accept-Language")
}

func (h *Handlers) newPageData(r *http.Request, page Page) *pageData {
	tag := i18n.Match(h.language(r))
	p := i18n.Printer(tag.String())
	t := make(map[string]string)
	for _, key := range i18n.Keys() {
		t[key] = p.Sprintf(key)
	}

	data := &pageData{
		Lang:   tag.String(),
		Active: page,
		T:      t,
	}
	for _, pg := range Pages {
		data.Pages = append(data.Pages, pageLink{
			Name:   pg.String(),
			Label:  t["page."+pg.String()],
			Active: pg == page,
		})
	}
	return data
}
