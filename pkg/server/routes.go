package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/c9s/harmonic/pkg/config"
	"github.com/c9s/harmonic/pkg/harmonic"
	"github.com/c9s/harmonic/pkg/indicator"
	"github.com/c9s/harmonic/pkg/metrics"
	"github.com/c9s/harmonic/pkg/report"
	"github.com/c9s/harmonic/pkg/types"
	"github.com/c9s/harmonic/pkg/version"
)

// Server exposes the pattern detector over HTTP.
type Server struct {
	Config   *config.Config
	Detector *harmonic.Detector
}

// ScanRequest is the POST /api/scan payload: two equal length arrays
// of prices and unix second timestamps.
type ScanRequest struct {
	Symbol     string    `json:"symbol"`
	Prices     []float64 `json:"prices" binding:"required"`
	Timestamps []int64   `json:"timestamps" binding:"required"`
	ScanType   string    `json:"scanType"`
}

// ScanResponse augments the report envelope with a completion forecast
// for every potential pattern, computed against the last price.
type ScanResponse struct {
	*report.ScanReport
	Forecasts []types.CompletionForecast `json:"forecasts,omitempty"`
}

func (s *Server) newEngine() *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowMethods:     []string{"GET", "POST"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": version.Version})
	})

	r.GET("/api/templates", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"templates": s.Detector.Templates().All()})
	})

	r.POST("/api/scan", s.handleScan)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (s *Server) handleScan(c *gin.Context) {
	var payload ScanRequest
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing arguments"})
		return
	}

	scanType, err := types.ParseScanType(payload.ScanType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	times := make([]time.Time, len(payload.Timestamps))
	for i, ts := range payload.Timestamps {
		times[i] = time.Unix(ts, 0).UTC()
	}

	series, err := types.NewPriceSeries(payload.Prices, times)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	scan, err := s.Detector.ScanWithType(c.Request.Context(), series, scanType)
	if err != nil {
		metrics.ScanErrorsMetrics.Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, indicator.ErrInsufficientData) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	elapsed := time.Since(start)

	s.observeScan(scanType, scan, series, elapsed)

	resp := ScanResponse{
		ScanReport: report.New(payload.Symbol, scanType, s.Detector.Config(), scan, series.Length(), elapsed),
	}

	if last, ok := series.Last(); ok {
		for _, p := range scan.PotentialPatterns {
			resp.Forecasts = append(resp.Forecasts, s.Detector.PredictCompletion(p, last.Price))
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) observeScan(scanType types.ScanType, scan *types.PatternScan, series types.PriceSeries, elapsed time.Duration) {
	metrics.ScansTotalMetrics.WithLabelValues(string(scanType)).Inc()
	metrics.ScanDurationMilliseconds.Observe(float64(elapsed.Microseconds()) / 1e3)

	if pivots, err := s.Detector.Pivots(series); err == nil {
		metrics.PivotsDetectedMetrics.Set(float64(len(pivots)))
	}

	counts := map[[3]string]int{}
	for _, p := range scan.Patterns {
		status := "potential"
		if p.Completion.Complete {
			status = "complete"
		}
		counts[[3]string{string(p.Type), string(p.Direction), status}]++
	}
	for key, n := range counts {
		metrics.PatternsDetectedMetrics.WithLabelValues(key[0], key[1], key[2]).Set(float64(n))
	}
}

// Run serves the API until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	bind := s.Config.Server.Bind

	srv := &http.Server{
		Addr:    bind,
		Handler: s.newEngine(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("server shutdown error")
		}
	}()

	logrus.Infof("serving harmonic scan api on %s", bind)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "server error")
	}

	return nil
}
