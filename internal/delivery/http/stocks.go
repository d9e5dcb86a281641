package http

import (
	"net/http"
	"strconv"

	"equity-advisor/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStocks(base *echo.Group) {
	stocksGroup := base.Group("/stocks")
	stocksGroup.GET("/:symbol/score", h.getScore)
	stocksGroup.GET("/:symbol/score/history", h.getScoreHistory)
	stocksGroup.GET("/:symbol/signals", h.getSignals)
}

func (h *HttpAPIHandler) getScore(c echo.Context) error {
	ctx := c.Request().Context()

	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "symbol is required"})
	}

	result, err := h.service.AnalysisService.Analyze(ctx, symbol)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to analyze symbol"})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) getScoreHistory(c echo.Context) error {
	ctx := c.Request().Context()

	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "symbol is required"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	snapshots, err := h.service.AnalysisService.GetScoreHistory(ctx, symbol, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch score history"})
	}

	return c.JSON(http.StatusOK, snapshots)
}

func (h *HttpAPIHandler) getSignals(c echo.Context) error {
	ctx := c.Request().Context()

	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "symbol is required"})
	}

	limit := 30
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		limit = parsed
	}

	order := c.QueryParam("order")
	if order == "" {
		order = "desc"
	}
	if order != "asc" && order != "desc" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "order must be asc or desc"})
	}

	param := dto.GetStockDataParam{
		Symbol:   symbol,
		Range:    c.QueryParam("range"),
		Interval: c.QueryParam("interval"),
	}
	if param.Range == "" {
		param.Range = "1y"
	}
	if param.Interval == "" {
		param.Interval = "1d"
	}

	signals, err := h.service.SignalService.ComputeSignals(ctx, param, limit, order)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute signals"})
	}

	return c.JSON(http.StatusOK, signals)
}
