package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ShutdownTimeout is how long Close waits for in-flight requests.
const ShutdownTimeout = 30 * time.Second

// Request body limits.
const (
	maxCrawlBody   = 1 << 20
	maxExtractBody = 16 << 20
)

// Server serves the extraction API over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Addr is the bind address, e.g. ":8000".
	Addr string

	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string

	ExtractionService distill.ExtractionService
	DocumentExtractor distill.DocumentExtractor

	// RecordService is optional. Without it the record routes report
	// that storage is disabled.
	RecordService distill.RecordService

	Logger *slog.Logger
}

// NewServer returns a Server with its routes mounted. Services are set on
// the returned value before Open.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{ReadHeaderTimeout: 10 * time.Second},
		router: chi.NewRouter(),
	}
	s.server.Handler = s

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowOriginFunc: s.allowOrigin,
		AllowedMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:  []string{"Accept", "Content-Type"},
		MaxAge:          300,
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/crawl", s.handleCrawl)
	s.router.Post("/extract", s.handleExtract)
	s.router.Route("/records", func(r chi.Router) {
		r.Get("/", s.handleRecordList)
		r.Get("/{id}", s.handleRecordView)
	})
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.Error(w, r, distill.Errorf(distill.ENOTFOUND, "route not found"))
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open starts listening on Addr and serves in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() { _ = s.server.Serve(s.ln) }()
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

func (s *Server) allowOrigin(_ *http.Request, origin string) bool {
	return len(s.AllowedOrigins) == 0 || slices.Contains(s.AllowedOrigins, origin)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.logger().Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"request_id", middleware.GetReqID(r.Context()),
				"duration", time.Since(begin),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "distill",
	})
}

type crawlRequest struct {
	URL      string `json:"url"`
	MinWords int    `json:"min_words"`
}

func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	var req crawlRequest
	if err := decodeJSON(w, r, maxCrawlBody, &req); err != nil {
		s.Error(w, r, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.Error(w, r, distill.Errorf(distill.EINVALID, "url required"))
		return
	}

	e, err := s.ExtractionService.Extract(r.Context(), req.URL, req.MinWords)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, e)
}

type extractRequest struct {
	Text     string `json:"text"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	MinWords int    `json:"min_words"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeJSON(w, r, maxExtractBody, &req); err != nil {
		s.Error(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.Error(w, r, distill.Errorf(distill.EINVALID, "text required"))
		return
	}

	doc := &distill.RawDocument{URL: req.URL, Text: req.Text, Title: req.Title}
	e, err := s.DocumentExtractor.ExtractDocument(r.Context(), doc, req.MinWords)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, e)
}

func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request) {
	if s.RecordService == nil {
		s.Error(w, r, distill.Errorf(distill.ENOTFOUND, "record storage disabled"))
		return
	}

	record, err := s.RecordService.FindRecordByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, record)
}

func (s *Server) handleRecordList(w http.ResponseWriter, r *http.Request) {
	if s.RecordService == nil {
		s.Error(w, r, distill.Errorf(distill.ENOTFOUND, "record storage disabled"))
		return
	}

	q := r.URL.Query()
	var filter distill.RecordFilter
	if v := q.Get("url"); v != "" {
		filter.URL = &v
	}
	if v := q.Get("method"); v != "" {
		m := distill.Method(v)
		filter.Method = &m
	}
	var err error
	if filter.Limit, err = queryInt(q.Get("limit"), 20); err != nil {
		s.Error(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(q.Get("offset"), 0); err != nil {
		s.Error(w, r, err)
		return
	}

	records, err := s.RecordService.FindRecords(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if records == nil {
		records = []*distill.Record{}
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"records": records})
}

// Error writes err as a JSON error response. Internal errors are logged
// and their details hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := distill.ErrorCode(err), distill.ErrorMessage(err)
	if code == distill.EINTERNAL {
		s.logger().Error("http error",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	s.writeJSON(w, r, ErrorStatusCode(code), map[string]string{
		"error": message,
		"code":  code,
	})
}

// ErrorStatusCode maps an application error code to an HTTP status.
func ErrorStatusCode(code string) int {
	switch code {
	case distill.EINVALID:
		return http.StatusBadRequest
	case distill.ENOTFOUND:
		return http.StatusNotFound
	case distill.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger().Warn("writing response", "path", r.URL.Path, "err", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return distill.Errorf(distill.EINVALID, "request body exceeds %d bytes", maxErr.Limit)
		}
		return distill.Errorf(distill.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}

func queryInt(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, distill.Errorf(distill.EINVALID, "invalid number %q", v)
	}
	return n, nil
}
