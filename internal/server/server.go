// Package server serves the template download and the upload form that
// turns a filled-in workbook into the PDF log.
package server

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"kastelo.dev/internlog/internal/config"
	"kastelo.dev/internlog/render"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg    *config.Config
	log    *zap.Logger
	header render.Header
	engine *gin.Engine
}

func New(cfg *config.Config, log *zap.Logger) *Server {
	s := &Server{
		cfg: cfg,
		log: log,
		header: render.Header{
			Title:       cfg.Header.Title,
			Institution: cfg.Header.Institution,
			Location:    cfg.Header.Location,
			Affiliation: cfg.Header.Affiliation,
		},
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(requestID(), accessLog(log), recovery(log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length", "Content-Disposition", "X-Page-Count", requestIDHeader},
		MaxAge:          12 * time.Hour,
	}))
	r.SetHTMLTemplate(template.Must(template.New("index").Parse(indexPage)))

	r.GET("/", s.index)
	r.GET("/healthz", s.health)
	r.GET("/template", s.downloadTemplate)

	upload := r.Group("/", limitBody(cfg.MaxUploadBytes), rateLimit(newLimiter(cfg.RatePerMinute), log))
	upload.POST("/generate", s.generate)
	upload.POST("/validate", s.validate)

	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("Listening", zap.String("addr", s.cfg.Listen))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}
