package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/zostay/go-email-codec/analyze"
	"github.com/zostay/go-email-codec/crosscheck"
	"github.com/zostay/go-email-codec/internal/report"
	"github.com/zostay/go-email-codec/message"
)

var (
	listenAddr string
	maxBody    int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves analysis over HTTP",
	Long: `Serves analysis over HTTP. Each endpoint takes a MIME document as the
request body:

  POST /analyze   JSON summary of the analysis
  POST /outline   outline of the MIME tree
  POST /check     differences from a reading by go-message, one per line`,
	Args: cobra.NoArgs,
	RunE: RunServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:8025", "address to listen on")
	serveCmd.Flags().Int64Var(&maxBody, "max-body", 32<<20, "largest accepted document in bytes")
	rootCmd.AddCommand(serveCmd)
}

// NewRouter returns the HTTP handler of the serve command.
func NewRouter(opts ...analyze.Option) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok\n")
	})

	r.Post("/analyze", func(w http.ResponseWriter, req *http.Request) {
		doc, ok := readDocument(w, req)
		if !ok {
			return
		}

		res, err := analyze.ParseReader(bytes.NewReader(doc), opts...)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		s, err := report.Summarize(res)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		b, err := s.JSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(b); err != nil {
			logger.Warn().Err(err).Str("path", req.URL.Path).Msg("failed to write response")
		}
	})

	r.Post("/outline", func(w http.ResponseWriter, req *http.Request) {
		doc, ok := readDocument(w, req)
		if !ok {
			return
		}

		msg, err := message.Parse(bytes.NewReader(doc), message.WithMaxDepth(analyze.DefaultMaxDepth))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := report.Outline(w, msg); err != nil {
			logger.Warn().Err(err).Str("path", req.URL.Path).Msg("failed to write response")
		}
	})

	r.Post("/check", func(w http.ResponseWriter, req *http.Request) {
		doc, ok := readDocument(w, req)
		if !ok {
			return
		}

		diffs, err := crosscheck.Check(bytes.NewReader(doc), opts...)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, d := range diffs {
			if _, err := io.WriteString(w, d+"\n"); err != nil {
				logger.Warn().Err(err).Str("path", req.URL.Path).Msg("failed to write response")
				return
			}
		}
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, req)

		logger.Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func readDocument(w http.ResponseWriter, req *http.Request) ([]byte, bool) {
	limit := maxBody
	if limit <= 0 {
		limit = 32 << 20
	}

	doc, err := io.ReadAll(http.MaxBytesReader(w, req.Body, limit))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return nil, false
	}
	return doc, true
}

func RunServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           NewRouter(analyzeOptions()...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info().Str("addr", listenAddr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
