// Package web serves a small upload form that runs the annotation pipeline
// and returns the annotated artifact.
package web

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/interfaces"
	"github.com/nodewee/doc-highlight/pkg/logger"
	"github.com/nodewee/doc-highlight/pkg/types"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

//go:embed templates/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// Server is the HTTP front end. Pipeline runs are serialized.
type Server struct {
	processor interfaces.FileProcessor
	workDir   string
	accept    string
	logger    *logger.Logger

	mu sync.Mutex
}

// NewServer creates a server that stores uploads and results in workDir
func NewServer(processor interfaces.FileProcessor, workDir string, supported []string, log *logger.Logger) (*Server, error) {
	if err := utils.EnsureDir(workDir); err != nil {
		return nil, utils.WrapError(err, "", "failed to create work directory")
	}
	accept := make([]string, len(supported))
	for i, ext := range supported {
		accept[i] = "." + ext
	}
	return &Server{
		processor: processor,
		workDir:   workDir,
		accept:    strings.Join(accept, ", "),
		logger:    log,
	}, nil
}

// Routes returns the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Post("/annotate", s.handleAnnotate)
	r.Get("/files/{name}", s.handleFile)
	return r
}

// ListenAndServe runs until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.ProgressAlways("🌐", "Serving on http://%s", displayAddr(addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return utils.NewSystemError("web server failed", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("%s %s -> %d (%s) [%s]", r.Method, r.URL.Path, ww.Status(),
			time.Since(start).Round(time.Millisecond), middleware.GetReqID(r.Context()))
	})
}

type pageError struct {
	Type    utils.ErrorType
	Message string
}

type pageResult struct {
	Query        string
	Upload       string
	FileName     string
	MatchCount   int
	FallbackUsed bool
	Preview      bool
	Strategy     string
	Elapsed      time.Duration
}

type pageData struct {
	Accept string
	Text   string
	Error  *pageError
	Result *pageResult
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	data.Accept = s.accept
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.Error("Template rendering failed: %v", err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, text string, err error) {
	errType := utils.GetErrorType(err)
	msg := err.Error()
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
		if appErr.Cause != nil {
			msg += ": " + appErr.Cause.Error()
		}
	}
	s.render(w, statusFor(errType), pageData{Text: text, Error: &pageError{Type: errType, Message: msg}})
}

func statusFor(t utils.ErrorType) int {
	switch t {
	case utils.ErrorTypeValidation, utils.ErrorTypeUnsupported, utils.ErrorTypeMalformedInput:
		return http.StatusBadRequest
	case utils.ErrorTypeNotFound:
		return http.StatusNotFound
	case utils.ErrorTypeMissingDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, pageData{})
}

func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSizeBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.renderError(w, "", utils.NewValidationError("invalid upload", err))
		return
	}
	text := r.FormValue("text")

	file, header, err := r.FormFile("file")
	if err != nil {
		s.renderError(w, text, utils.NewValidationError("no file uploaded", err))
		return
	}
	defer file.Close()

	upload := utils.SanitizeFileName(filepath.Base(header.Filename))
	if upload == "" || upload == "." {
		s.renderError(w, text, utils.NewValidationError("uploaded file has no name", nil))
		return
	}

	id := uuid.NewString()[:8]
	inputName := id + "_" + upload
	inputPath := filepath.Join(s.workDir, inputName)
	if err := saveUpload(inputPath, file); err != nil {
		s.renderError(w, text, err)
		return
	}
	outputName := OutputName(inputName)
	outputPath := filepath.Join(s.workDir, outputName)

	s.mu.Lock()
	res, err := s.processor.ProcessFile(r.Context(), inputPath, outputPath, text)
	s.mu.Unlock()
	if err != nil {
		s.logger.Warn("Annotation of %s failed: %v", upload, err)
		s.renderError(w, text, err)
		return
	}

	s.render(w, http.StatusOK, pageData{
		Text: text,
		Result: &pageResult{
			Query:        text,
			Upload:       upload,
			FileName:     filepath.Base(res.OutputPath),
			MatchCount:   res.MatchCount,
			FallbackUsed: res.FallbackUsed,
			Preview:      res.Kind == types.KindImage,
			Strategy:     res.Strategy,
			Elapsed:      res.ProcessTime.Round(time.Millisecond),
		},
	})
}

// OutputName derives the result file name for an upload: <stem>_overlay<ext>,
// with .pdf for flow documents since their overlay is a converted PDF
func OutputName(upload string) string {
	ext := filepath.Ext(upload)
	for _, flow := range constants.FlowDocExtensions {
		if strings.EqualFold(ext, "."+flow) {
			ext = ".pdf"
		}
	}
	return utils.Stem(upload) + constants.OverlayFileSuffix + ext
}

func saveUpload(path string, src io.Reader) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, constants.DefaultFilePermission)
	if err != nil {
		return utils.NewIOError("failed to store upload", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return utils.NewValidationError("failed to receive upload", err)
	}
	if err := f.Close(); err != nil {
		return utils.NewIOError("failed to store upload", err)
	}
	return nil
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "name"))
	if name == "." || name == string(filepath.Separator) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.workDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	disposition := "attachment"
	if r.URL.Query().Get("inline") == "1" {
		disposition = "inline"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, name))
	http.ServeFile(w, r, path)
}
