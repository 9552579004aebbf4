package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appcontent "github.com/bryanwahyu/product-content-ai/internal/application/content"
	domai "github.com/bryanwahyu/product-content-ai/internal/domain/ai"
	"github.com/bryanwahyu/product-content-ai/internal/domain/product"
	"github.com/bryanwahyu/product-content-ai/internal/infra/logging"
	"github.com/bryanwahyu/product-content-ai/internal/middleware"
)

// multipartSlack covers the multipart framing and the settings field.
const multipartSlack = 1 << 20

type Options struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	contentSvc *appcontent.Service
}

func NewRouter(contentSvc *appcontent.Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := &Router{contentSvc: contentSvc}
	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware(opts.Logger))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.ReadinessHandler(opts.HealthCheckers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/generate-content", r.wrap(product.MsgGenerateFail, r.handleGenerate))
		rt.Get("/history", r.wrap(product.MsgHistoryFailed, r.handleHistory))
		rt.Get("/history/{id}", r.wrap(product.MsgHistoryFailed, r.handleGet))
		rt.Delete("/history/{id}", r.wrap(product.MsgDeleteFailed, r.handleDelete))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type messageBody struct {
	Message string `json:"message"`
}

// wrap maps handler errors to JSON {message} responses. fallback is used for
// errors that carry no user-facing text.
func (r *Router) wrap(fallback string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		logger := logging.FromContext(req.Context())

		var vErr *product.ValidationError
		var aErr *domai.AnalysisError
		switch {
		case errors.As(err, &vErr):
			writeJSON(w, http.StatusBadRequest, messageBody{Message: vErr.Message})
		case errors.Is(err, product.ErrNotFound):
			writeJSON(w, http.StatusNotFound, messageBody{Message: product.MsgNotFound})
		case errors.As(err, &aErr):
			logger.Warn("analysis failed", zap.String("kind", string(aErr.Kind)), zap.String("detail", aErr.Detail))
			writeJSON(w, http.StatusInternalServerError, messageBody{Message: aErr.Message})
		default:
			logger.Error("request failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, messageBody{Message: fallback})
		}
	}
}

// POST /api/generate-content
// multipart: image=<file>, settings=<json>
func (r *Router) handleGenerate(w http.ResponseWriter, req *http.Request) error {
	middleware.IncrementGenerations()
	middleware.IncrementGenerationsRunning()
	defer middleware.DecrementGenerationsRunning()

	a, err := r.generate(w, req)
	if err != nil {
		var vErr *product.ValidationError
		if errors.As(err, &vErr) {
			middleware.IncrementGenerationsRejected()
		} else {
			middleware.IncrementGenerationsFailed()
		}
		return err
	}

	writeJSON(w, http.StatusOK, domai.Result{
		Title:       a.Title,
		Description: a.Description,
		Hashtags:    a.Hashtags,
		Categories:  a.Categories,
	})
	return nil
}

func (r *Router) generate(w http.ResponseWriter, req *http.Request) (*product.Analysis, error) {
	cmd, err := readUpload(w, req)
	if err != nil {
		return nil, err
	}
	return r.contentSvc.Generate(req.Context(), cmd)
}

// readUpload extracts the image part and the settings field. The body is
// capped so an oversized upload is rejected before it is buffered.
func readUpload(w http.ResponseWriter, req *http.Request) (appcontent.GenerateCommand, error) {
	var cmd appcontent.GenerateCommand
	req.Body = http.MaxBytesReader(w, req.Body, product.MaxImageSize+multipartSlack)

	if err := req.ParseMultipartForm(product.MaxImageSize + multipartSlack); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return cmd, &product.ValidationError{Message: product.MsgImageTooLarge}
		}
		return cmd, &product.ValidationError{Message: product.MsgImageRequired}
	}
	if req.MultipartForm != nil {
		defer req.MultipartForm.RemoveAll()
	}

	file, header, err := req.FormFile("image")
	if err != nil {
		return cmd, &product.ValidationError{Message: product.MsgImageRequired}
	}
	defer file.Close()

	// one byte past the limit is enough to report the size
	data, err := io.ReadAll(io.LimitReader(file, product.MaxImageSize+1))
	if err != nil {
		return cmd, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	cmd.Image = data
	cmd.MIMEType = mimeType

	if raw := middleware.SanitizeString(req.FormValue("settings")); raw != "" {
		partial, err := product.ParseSettings([]byte(raw))
		if err != nil {
			logging.FromContext(req.Context()).Warn("invalid settings, using defaults", zap.Error(err))
		}
		cmd.Settings = partial
	}
	return cmd, nil
}

// GET /api/history
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	list, err := r.contentSvc.History(req.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /api/history/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := middleware.ParseAnalysisID(chi.URLParam(req, "id"))
	if err != nil {
		return &product.ValidationError{Message: product.MsgInvalidID}
	}
	a, err := r.contentSvc.Get(req.Context(), product.AnalysisID(id))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, a)
	return nil
}

// DELETE /api/history/{id}
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	id, err := middleware.ParseAnalysisID(chi.URLParam(req, "id"))
	if err != nil {
		// unparseable ids never match a record
		return product.ErrNotFound
	}
	deleted, err := r.contentSvc.Delete(req.Context(), product.AnalysisID(id))
	if err != nil {
		return err
	}
	if !deleted {
		return product.ErrNotFound
	}
	middleware.IncrementDeleted()
	writeJSON(w, http.StatusOK, messageBody{Message: product.MsgDeleted})
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
