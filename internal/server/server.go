// Package server exposes the conversion pipeline over HTTP.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/generator"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/logger"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/mapper"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/validation"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config *Config
	router *gin.Engine
	log    zerolog.Logger
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config: config,
		router: router,
		log:    logger.WithComponent("server"),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/formats", s.handleFormats)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/convert", s.handleConvert)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.log.Info().Str("addr", s.config.Address).Msg("listening")
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleFormats(c *gin.Context) {
	formats := generator.Formats()
	infos := make([]FormatInfo, 0, len(formats))
	for _, f := range formats {
		gen, _ := generator.For(f)
		infos = append(infos, FormatInfo{
			Format:        string(f),
			Profile:       string(model.ProfileForFormat(f)),
			FileExtension: gen.FileExtension(),
			MimeType:      gen.MimeType(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"formats": infos})
}

// bindRequest parses the request body and resolves the requested format.
func (s *Server) bindRequest(c *gin.Context) (*ConvertRequest, model.OutputFormat, bool) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
		return nil, "", false
	}

	format, ok := model.ParseOutputFormat(req.Format)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "unsupported output format",
			Details: req.Format,
		})
		return nil, "", false
	}
	return &req, format, true
}

func (s *Server) handleValidate(c *gin.Context) {
	req, format, ok := s.bindRequest(c)
	if !ok {
		return
	}

	inv, err := mapper.ToCanonical(req.Invoice, format)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "normalizing invoice failed",
			Details: err.Error(),
		})
		return
	}

	vr := validation.Validate(inv, model.ProfileForFormat(format))
	c.JSON(http.StatusOK, ValidationResponse{
		Valid:    vr.Valid,
		Profile:  vr.Profile,
		Errors:   vr.Errors,
		Warnings: vr.Warnings,
	})
}

func (s *Server) handleConvert(c *gin.Context) {
	req, format, ok := s.bindRequest(c)
	if !ok {
		return
	}

	inv, err := mapper.ToCanonical(req.Invoice, format)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "normalizing invoice failed",
			Details: err.Error(),
		})
		return
	}

	vr := validation.Validate(inv, model.ProfileForFormat(format))

	gen, found := generator.For(format)
	if !found {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported output format", Details: string(format)})
		return
	}

	result, err := gen.Generate(inv)
	if err != nil {
		var genErr *model.GenerationError
		if errors.As(err, &genErr) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "generation failed",
				Details: genErr.Error(),
			})
			return
		}
		s.log.Error().Err(err).Str("format", string(format)).Msg("generation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "generation failed"})
		return
	}

	allErrors := append(result.ValidationErrors, vr.Errors...)
	allWarnings := append(result.ValidationWarnings, vr.Warnings...)

	resp := ConvertResponse{
		ConversionID:     uuid.NewString(),
		Format:           string(format),
		XMLContent:       result.XMLContent,
		PDFContent:       result.PDFContent,
		FileName:         result.FileName,
		FileSize:         result.FileSize,
		MimeType:         result.MimeType,
		ValidationStatus: model.StatusFrom(allErrors, allWarnings),
		Errors:           allErrors,
		Warnings:         allWarnings,
	}

	s.log.Info().
		Str("conversion_id", resp.ConversionID).
		Str("format", string(format)).
		Str("status", string(resp.ValidationStatus)).
		Msg("conversion finished")

	c.JSON(http.StatusOK, resp)
}
