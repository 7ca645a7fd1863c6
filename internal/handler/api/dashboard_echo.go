package api

import (
	"encoding/json"
	"time"

	models "ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"
	icache "ReconFlow/internal/service/cache"
	"ReconFlow/internal/service/ratelimit"
	"ReconFlow/internal/usecase"
	xhttp "ReconFlow/pkg/http"
	xlogger "ReconFlow/pkg/logger"
	"ReconFlow/pkg/util"

	"github.com/labstack/echo/v4"
)

// Cache TTL for window-scoped responses; the frontend polls faster than
// the stores change.
const responseCacheTTL = 15 * time.Second

// Per-client allowance for the aggregation-heavy endpoints.
const (
	rateCapacity     = 10
	rateRefillPerSec = 2
)

// DashboardEchoHandler exposes the reconciliation engines over HTTP.
type DashboardEchoHandler struct {
	logger      *xlogger.Logger
	reconciler  *usecase.Reconciler
	detector    *usecase.AnomalyDetector
	synthesizer *usecase.Synthesizer
	performance *usecase.PerformanceCalculator
	dashboard   *usecase.DashboardBuilder
	writer      domrepo.RecordWriter
	cache       icache.BytesCache
	limiter     *ratelimit.Limiter
}

func NewDashboardEchoHandler(
	logger *xlogger.Logger,
	reconciler *usecase.Reconciler,
	detector *usecase.AnomalyDetector,
	synthesizer *usecase.Synthesizer,
	performance *usecase.PerformanceCalculator,
	dashboard *usecase.DashboardBuilder,
	writer domrepo.RecordWriter,
	cache icache.BytesCache,
) *DashboardEchoHandler {
	return &DashboardEchoHandler{
		logger:      logger,
		reconciler:  reconciler,
		detector:    detector,
		synthesizer: synthesizer,
		performance: performance,
		dashboard:   dashboard,
		writer:      writer,
		cache:       cache,
		limiter:     ratelimit.New(),
	}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.rateLimit)
	g.GET("/equilibrage", h.Equilibrage)
	g.GET("/anomalies", h.Anomalies)
	g.GET("/synthese", h.Synthese)
	g.GET("/performance", h.Performance)
	g.GET("/dashboard", h.Dashboard)
	e.GET("/api/health", h.Health)
}

// rateLimit rejects clients that exhaust their token bucket.
func (h *DashboardEchoHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.limiter.Allow(c.RealIP(), rateCapacity, rateRefillPerSec) {
			return xhttp.DataResponse(c, 429, "Too Many Requests")
		}
		return next(c)
	}
}

func (h *DashboardEchoHandler) Equilibrage(c echo.Context) error {
	req := &models.WindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w := windowFromRequest(req.From, req.To)

	res := h.reconciler.Reconcile(c.Request().Context(), w)
	return xhttp.SuccessResponse(c, equilibrageResponse{
		EquilibrageResult: res,
		Status:            res.Status(),
		CombinedCount:     res.CombinedCount(),
		CombinedAmount:    res.CombinedAmount(),
	})
}

func (h *DashboardEchoHandler) Anomalies(c echo.Context) error {
	req := &models.AnomaliesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w := windowFromRequest(req.From, req.To)

	var anomalies []models.Anomaly
	if req.Session {
		anomalies = h.detector.DetectSession(c.Request().Context(), w)
	} else {
		anomalies = h.detector.Detect(c.Request().Context(), w)
	}

	total := int64(len(anomalies))
	if limit := util.ParseIntDefault(c.QueryParam("limit"), 0); limit > 0 && limit < len(anomalies) {
		anomalies = anomalies[:limit]
	}
	return xhttp.ListResponse(c, anomalies, total)
}

func (h *DashboardEchoHandler) Synthese(c echo.Context) error {
	req := &models.WindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w := windowFromRequest(req.From, req.To)

	key := "synthese:" + w.Key()
	if b, ok := h.cached(key); ok {
		return cachedJSONResponse(c, b)
	}

	res := h.synthesizer.Synthesize(c.Request().Context(), w)
	out := syntheseResponse{
		SyntheseResult: res,
		Health:         res.Health(),
		Bottleneck:     res.Bottleneck(),
	}
	h.store(key, out)
	return xhttp.SuccessResponse(c, out)
}

func (h *DashboardEchoHandler) Performance(c echo.Context) error {
	req := &models.WindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w := windowFromRequest(req.From, req.To)

	res := h.performance.Calculate(c.Request().Context(), w)
	return xhttp.SuccessResponse(c, performanceResponse{
		PerformanceReport: res,
		ScoreLabel:        res.ScoreLabel(),
	})
}

func (h *DashboardEchoHandler) Dashboard(c echo.Context) error {
	req := &models.WindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w := windowFromRequest(req.From, req.To)

	key := "dashboard:" + w.Key()
	if b, ok := h.cached(key); ok {
		return cachedJSONResponse(c, b)
	}

	res := h.dashboard.Build(c.Request().Context(), w)
	h.store(key, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	if h.writer != nil {
		if err := h.writer.Health(c.Request().Context()); err != nil {
			h.logger.Error("store health check failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("record store unreachable").WithError(err))
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// cached returns the marshaled response stored for key, if fresh.
func (h *DashboardEchoHandler) cached(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("cache read failed", xlogger.Error(err))
		return nil, false
	}
	return b, ok
}

func (h *DashboardEchoHandler) store(key string, v interface{}) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, responseCacheTTL); err != nil {
		h.logger.Warn("cache write failed", xlogger.Error(err))
	}
}

func cachedJSONResponse(c echo.Context, body []byte) error {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, data)
}

// windowFromRequest parses the bounds, defaulting to the current day.
func windowFromRequest(from, to string) models.Window {
	def := models.Today()
	return models.NewWindow(
		util.ParseTimeDefault(from, def.Start),
		util.ParseTimeDefault(to, def.End),
	)
}

// Response envelopes carrying the derived labels next to the raw figures.

type equilibrageResponse struct {
	models.EquilibrageResult
	Status         models.BalanceStatus `json:"status"`
	CombinedCount  int64                `json:"combined_count"`
	CombinedAmount float64              `json:"combined_amount"`
}

type syntheseResponse struct {
	models.SyntheseResult
	Health     models.HealthLabel `json:"health"`
	Bottleneck models.Bottleneck  `json:"bottleneck"`
}

type performanceResponse struct {
	models.PerformanceReport
	ScoreLabel models.HealthLabel `json:"score_label"`
}
