package in

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"prepdeck/internal/modules/deck/dto"
	deckin "prepdeck/internal/modules/deck/port/in"
	apperrors "prepdeck/internal/platform/errors"
)

// ProxyPolicy restricts which upstream URLs the CSV proxy will fetch.
type ProxyPolicy struct {
	AllowHost       string
	AllowPathPrefix string
}

// Allows reports whether target may be fetched. The host must match exactly,
// port included.
func (p ProxyPolicy) Allows(target *url.URL) bool {
	return strings.EqualFold(target.Host, p.AllowHost) && strings.HasPrefix(target.Path, p.AllowPathPrefix)
}

type HTTPHandler struct {
	usecase  deckin.Usecase
	policy   ProxyPolicy
	client   *http.Client
	defaults map[string]dto.WeightsInput
	logger   *slog.Logger
}

// NewHTTPHandler serves the CSV proxy and the read-only deck API. defaults
// holds the per-deck weights used when a draw request names none.
func NewHTTPHandler(usecase deckin.Usecase, policy ProxyPolicy, client *http.Client, defaults map[string]dto.WeightsInput, logger *slog.Logger) *HTTPHandler {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPHandler{usecase: usecase, policy: policy, client: client, defaults: defaults, logger: logger}
}

func (h *HTTPHandler) Register(router gin.IRouter) {
	api := router.Group("/api")
	api.GET("/csv-proxy", h.handleProxy)
	api.GET("/decks/:deck/cards", h.handleCards)
	api.GET("/decks/:deck/summary", h.handleSummary)
	api.GET("/decks/:deck/draw", h.handleDraw)
}

func (h *HTTPHandler) handleProxy(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url parameter."})
		return
	}
	target, err := url.Parse(raw)
	if err != nil || !target.IsAbs() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid url."})
		return
	}
	if !h.policy.Allows(target) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL not allowed."})
		return
	}

	body, err := h.fetchUpstream(c, target.String())
	if err != nil {
		h.logger.Warn("csv proxy upstream failed", "url", target.String(), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch CSV."})
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

func (h *HTTPHandler) fetchUpstream(c *gin.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (h *HTTPHandler) handleCards(c *gin.Context) {
	cards, err := h.usecase.List(c.Request.Context(), dto.ListInput{Deck: c.Param("deck"), Filters: filterFromQuery(c)})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deck": c.Param("deck"), "count": len(cards), "cards": cards})
}

func (h *HTTPHandler) handleSummary(c *gin.Context) {
	out, err := h.usecase.Summary(c.Request.Context(), c.Param("deck"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deck": out.Deck, "label": out.Label, "total": out.Total, "red": out.Red, "yellow": out.Yellow, "green": out.Green})
}

func (h *HTTPHandler) handleDraw(c *gin.Context) {
	deck := c.Param("deck")
	weights, err := h.weightsFromQuery(c, deck)
	if err != nil {
		h.writeError(c, err)
		return
	}
	card, err := h.usecase.Draw(c.Request.Context(), dto.DrawInput{Deck: deck, Filters: filterFromQuery(c), Weights: weights})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func filterFromQuery(c *gin.Context) dto.FilterInput {
	exclude, _ := strconv.ParseBool(c.DefaultQuery("exclude_green", "false"))
	return dto.FilterInput{Status: c.Query("status"), ExcludeGreen: exclude}
}

func (h *HTTPHandler) weightsFromQuery(c *gin.Context, deck string) (dto.WeightsInput, error) {
	w := h.defaults[strings.ToLower(strings.TrimSpace(deck))]
	for name, dst := range map[string]*float64{"red": &w.Red, "yellow": &w.Yellow, "green": &w.Green} {
		raw, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return dto.WeightsInput{}, fmt.Errorf("%w: weight %s=%q", apperrors.ErrInvalidInput, name, raw)
		}
		*dst = v
	}
	return w, nil
}

func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrUnknownDeck), errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNoCards):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrMissingSourceURL):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("deck api request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
