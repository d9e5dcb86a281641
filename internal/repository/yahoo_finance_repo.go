package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"equity-advisor/config"
	"equity-advisor/internal/dto"
	"equity-advisor/pkg/cache"
	"equity-advisor/pkg/httpclient"
	"equity-advisor/pkg/logger"

	"golang.org/x/time/rate"
)

type YahooFinanceRepository interface {
	Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error)
}

type yahooFinanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	cache          cache.Cache
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a rate-limited, cached market data client.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger, c cache.Cache) YahooFinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &yahooFinanceRepository{
		httpClient:     httpclient.New(cfg.YahooFinance.BaseURL, cfg.YahooFinance.Timeout),
		cfg:            cfg,
		logger:         log,
		cache:          c,
		requestLimiter: requestLimiter,
	}
}

func (r *yahooFinanceRepository) Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error) {
	cacheKey := fmt.Sprintf("yahoo:%s:%s:%s", param.Symbol, param.Range, param.Interval)
	if data, found := cache.GetFromCache[*dto.StockData](r.cache, cacheKey); found {
		return data, nil
	}

	if !r.requestLimiter.Allow() {
		r.logger.WarnContext(ctx, "Yahoo Finance API request limit exceeded",
			logger.IntField("max_request_per_minute", r.cfg.YahooFinance.MaxRequestPerMinute))
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	period1, period2 := r.mapRangeToUnix(param.Range)
	if period1 == 0 || period2 == 0 {
		return nil, fmt.Errorf("invalid range: %s", param.Range)
	}

	endpoint := "/" + param.Symbol
	queryParams := map[string]string{
		"period1":        fmt.Sprintf("%d", period1),
		"period2":        fmt.Sprintf("%d", period2),
		"interval":       param.Interval,
		"includePrePost": "false",
		"events":         "div,split",
	}
	headers := map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         "https://finance.yahoo.com/",
	}

	var yahooResp dto.YahooFinanceResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, headers, &yahooResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from yahoo finance: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Yahoo Finance API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("yahoo finance api returned status: %d", resp.StatusCode)
	}

	if yahooResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance api error: %v", yahooResp.Chart.Error)
	}
	if len(yahooResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data returned for symbol: %s", param.Symbol)
	}

	result := yahooResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data available for symbol: %s", param.Symbol)
	}
	quote := result.Indicators.Quote[0]

	var bars []dto.Bar
	for i, timestamp := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			continue
		}

		// Zero values mean missing data on half-days or halts.
		if quote.Open[i] == 0 || quote.High[i] == 0 || quote.Low[i] == 0 ||
			quote.Close[i] == 0 || quote.Volume[i] == 0 {
			continue
		}

		bars = append(bars, dto.Bar{
			Timestamp: timestamp,
			Open:      quote.Open[i],
			High:      quote.High[i],
			Low:       quote.Low[i],
			Close:     quote.Close[i],
			Volume:    quote.Volume[i],
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no valid OHLCV data found for symbol: %s", param.Symbol)
	}

	marketPrice := bars[len(bars)-1].Close
	if result.Meta.RegularMarketPrice > 0 {
		marketPrice = result.Meta.RegularMarketPrice
	}

	data := &dto.StockData{
		Symbol:      param.Symbol,
		MarketPrice: marketPrice,
		Range:       param.Range,
		Interval:    param.Interval,
		Bars:        bars,
	}
	r.cache.Set(cacheKey, data, r.cfg.YahooFinance.CacheTTL)

	return data, nil
}

func (r *yahooFinanceRepository) mapRangeToUnix(rng string) (int64, int64) {
	now := time.Now()
	switch rng {
	case "1m":
		return now.AddDate(0, 0, -30).Unix(), now.Unix()
	case "3m":
		return now.AddDate(0, 0, -90).Unix(), now.Unix()
	case "6m":
		return now.AddDate(0, 0, -180).Unix(), now.Unix()
	case "1y":
		return now.AddDate(0, 0, -365).Unix(), now.Unix()
	case "2y":
		return now.AddDate(0, 0, -730).Unix(), now.Unix()
	case "5y":
		return now.AddDate(0, 0, -1825).Unix(), now.Unix()
	default:
		return 0, 0
	}
}
