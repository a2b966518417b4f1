package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pable/go-statcast-diagnosis/internal/aggregator"
	"github.com/pable/go-statcast-diagnosis/internal/analysis"
	"github.com/pable/go-statcast-diagnosis/internal/narrative"
	"github.com/pable/go-statcast-diagnosis/internal/report"
	"github.com/pable/go-statcast-diagnosis/internal/statcast"
)

func (s *Server) health(c *gin.Context) {
	if err := s.svc.Ping(); err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) teams(c *gin.Context) {
	c.JSON(http.StatusOK, statcast.Teams())
}

func (s *Server) seasons(c *gin.Context) {
	labels := s.cfg.SeasonLabels()
	out := make([]gin.H, 0, len(labels))
	for _, l := range labels {
		r := s.cfg.Seasons[l]
		out = append(out, gin.H{"season": l, "start": r.Start, "end": r.End})
	}
	c.JSON(http.StatusOK, out)
}

// diagnosisBody is the JSON response of the diagnosis endpoints.
func diagnosisBody(d *analysis.Diagnosis) gin.H {
	body := gin.H{
		"diagnosis": d.Result,
		"range":     d.Range,
		"cached":    d.Cached,
		"charts": gin.H{
			"trend_lines": report.TrendLines(d.Result),
			"radar": gin.H{
				"early": report.RadarScores(d.Result.Segments.Early),
				"mid":   report.RadarScores(d.Result.Segments.Mid),
				"late":  report.RadarScores(d.Result.Segments.Late),
			},
		},
	}
	if d.Record != nil {
		body["id"] = d.Record.ID
	}
	return body
}

func (s *Server) diagnosis(c *gin.Context) {
	var req analysis.DiagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := s.svc.Diagnose(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, diagnosisBody(d))
}

func (s *Server) diagnosisNarrative(c *gin.Context) {
	var req analysis.DiagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	// only keep the diagnosis once its narrative exists
	save := req.Save
	req.Save = false
	d, err := s.svc.Diagnose(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	text, err := s.svc.Narrate(c.Request.Context(), d.Result, nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	if save {
		if err := s.svc.SaveDiagnosis(d); err != nil {
			s.fail(c, err)
			return
		}
	}
	body := diagnosisBody(d)
	body["narrative"] = text
	body["summary_markdown"] = report.QuickSummary(d.Result)
	c.JSON(http.StatusOK, body)
}

func (s *Server) recap(c *gin.Context) {
	var req analysis.RecapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rc, err := s.svc.Recap(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rc)
}

func (s *Server) strategy(c *gin.Context) {
	var req analysis.StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, err := s.svc.Strategy(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}

// fail maps a service error onto a status code and JSON error body.
func (s *Server) fail(c *gin.Context, err error) {
	var (
		insufficient *aggregator.InsufficientSampleError
		notFound     *statcast.PlayerNotFoundError
		noData       *statcast.NoDataError
	)
	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    err.Error(),
			"games":    insufficient.Games,
			"required": insufficient.Required,
		})
		return
	case errors.As(err, &notFound), errors.As(err, &noData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, analysis.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, analysis.ErrNoGenerator):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case errors.Is(err, narrative.ErrAuth):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	s.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
