// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the toolkit as a small web application: a
// search form with result tables, JSON endpoints, and CSV/XLSX
// downloads. One search runs at a time; concurrent requests are
// rejected rather than queued.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IMTENANUR/Research-Toolkit/internal/export"
	"github.com/IMTENANUR/Research-Toolkit/internal/search"
	"github.com/IMTENANUR/Research-Toolkit/internal/store"
	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// Trender counts publications per year; pubmed.Client implements it.
type Trender interface {
	YearlyTrend(ctx context.Context, term string, startYear, endYear int) (types.Trend, error)
}

// Server wires the session, trend client, and optional cache into a
// gin router.
type Server struct {
	session  *search.Session
	trender  Trender
	cache    *store.Store // nil disables session caching
	trendCfg types.TrendConfig
	router   *gin.Engine
}

// New builds the server and registers all routes.
func New(session *search.Session, trender Trender, cache *store.Store, trendCfg types.TrendConfig) *Server {
	s := &Server{
		session:  session,
		trender:  trender,
		cache:    cache,
		trendCfg: trendCfg,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.New("index").Parse(indexHTML)))

	router.GET("/", s.handleIndex)
	router.POST("/api/search", s.handleSearch)
	router.GET("/api/result", s.handleResult)
	router.GET("/api/trend", s.handleTrend)
	router.GET("/api/sessions", s.handleSessions)

	router.GET("/export/articles.csv", s.handleArticlesCSV)
	router.GET("/export/mesh.csv", s.handleMeshCSV)
	router.GET("/export/words.csv", s.handleWordsCSV)
	router.GET("/export/trend.csv", s.handleTrendCSV)
	router.GET("/export/workbook.xlsx", s.handleWorkbookXLSX)

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router = router
	return s
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	slog.Info("serving web UI", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{
		"Result": s.session.Last(),
	})
}

// searchRequest is the POST /api/search payload. Form posts from the
// index page bind the same fields.
type searchRequest struct {
	Query      string `json:"query" form:"query"`
	MaxResults int    `json:"max_results" form:"max_results"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is empty: provide at least one search term"})
		return
	}

	start := time.Now()
	result, err := s.session.Run(c.Request.Context(), req.Query, req.MaxResults)
	if err != nil {
		if errors.Is(err, search.ErrSearchInProgress) {
			searchesTotal.WithLabelValues("busy").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		searchesTotal.WithLabelValues("error").Inc()
		slog.Error("search failed", "query", req.Query, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	searchesTotal.WithLabelValues("ok").Inc()
	searchDuration.Observe(time.Since(start).Seconds())
	resultSetSize.Set(float64(len(result.Articles)))
	updateWordMetrics(result.Words)

	if s.cache != nil {
		if _, err := s.cache.SaveSession(c.Request.Context(), result); err != nil {
			slog.Warn("session cache write failed", "error", err)
		}
	}

	slog.Info("search completed", "query", req.Query,
		"fetched", len(result.Articles), "total", result.TotalMatches,
		"elapsed", time.Since(start))
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleResult(c *gin.Context) {
	result := s.session.Last()
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no completed search in this session"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleTrend(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "term parameter required"})
		return
	}

	from := s.trendCfg.StartYear
	if v := c.Query("from"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid from year %q", v)})
			return
		}
		from = y
	}
	to := s.trendCfg.EndYear
	if v := c.Query("to"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid to year %q", v)})
			return
		}
		to = y
	}

	trend, err := s.trender.YearlyTrend(c.Request.Context(), term, from, to)
	if err != nil {
		slog.Error("trend query failed", "term", term, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"term": term, "trend": trend})
}

func (s *Server) handleSessions(c *gin.Context) {
	if s.cache == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session cache disabled"})
		return
	}
	sessions, err := s.cache.Sessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "research-toolkit",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// currentResult fetches the result set for export handlers, answering
// 409 with an explanatory message when there is nothing to export.
func (s *Server) currentResult(c *gin.Context) *search.Result {
	result := s.session.Last()
	if result == nil || len(result.Articles) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "nothing to export: run a search with results first"})
		return nil
	}
	return result
}

func (s *Server) handleArticlesCSV(c *gin.Context) {
	result := s.currentResult(c)
	if result == nil {
		return
	}
	setDownloadHeaders(c, "articles.csv", "text/csv")
	if err := export.WriteArticlesCSV(c.Writer, result.Articles); err != nil {
		slog.Error("articles export failed", "error", err)
	}
}

func (s *Server) handleMeshCSV(c *gin.Context) {
	result := s.currentResult(c)
	if result == nil {
		return
	}
	setDownloadHeaders(c, "mesh.csv", "text/csv")
	if err := export.WriteFrequencyCSV(c.Writer, "mesh_term", result.Mesh); err != nil {
		slog.Error("mesh export failed", "error", err)
	}
}

func (s *Server) handleWordsCSV(c *gin.Context) {
	result := s.currentResult(c)
	if result == nil {
		return
	}
	setDownloadHeaders(c, "words.csv", "text/csv")
	if err := export.WriteFrequencyCSV(c.Writer, "word", result.Words); err != nil {
		slog.Error("words export failed", "error", err)
	}
}

func (s *Server) handleTrendCSV(c *gin.Context) {
	result := s.currentResult(c)
	if result == nil {
		return
	}
	setDownloadHeaders(c, "trend.csv", "text/csv")
	if err := export.WriteTrendCSV(c.Writer, result.Years); err != nil {
		slog.Error("trend export failed", "error", err)
	}
}

func (s *Server) handleWorkbookXLSX(c *gin.Context) {
	result := s.currentResult(c)
	if result == nil {
		return
	}
	setDownloadHeaders(c, "workbook.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	wb := export.Workbook{
		Articles: result.Articles,
		Mesh:     result.Mesh,
		Words:    result.Words,
		Trend:    result.Years,
	}
	if err := export.WriteWorkbookXLSX(c.Writer, wb); err != nil {
		slog.Error("workbook export failed", "error", err)
	}
}

func setDownloadHeaders(c *gin.Context, filename, contentType string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
}
