package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mvaldivia/soltrack/internal/config"
	"github.com/mvaldivia/soltrack/internal/models"
	"github.com/mvaldivia/soltrack/internal/repositories"

	"github.com/shopspring/decimal"
)

type exchangeRateService struct {
	rateRepo repositories.ExchangeRateRepositoryInterface
	client   *http.Client
	cfg      config.RatesConfig
	fallback decimal.Decimal
}

func NewExchangeRateService(rateRepo repositories.ExchangeRateRepositoryInterface, cfg config.RatesConfig) RateProvider {
	fallback, err := decimal.NewFromString(cfg.FallbackRate)
	if err != nil {
		slog.Warn("invalid fallback rate, using 0.27", "value", cfg.FallbackRate)
		fallback = decimal.NewFromFloat(0.27)
	}
	return &exchangeRateService{
		rateRepo: rateRepo,
		client:   &http.Client{Timeout: cfg.FetchTimeout},
		cfg:      cfg,
		fallback: fallback,
	}
}

// Rate resolves fromCurrency to toCurrency. Resolution order: fresh cached
// sample, live API fetch, stale cached sample, hardcoded fallback. It never
// fails; the fallback is the last resort.
func (s *exchangeRateService) Rate(fromCurrency, toCurrency string) decimal.Decimal {
	rate, _, _ := s.resolve(fromCurrency, toCurrency)
	return rate
}

// RateInfo returns the resolved rate plus provenance metadata.
func (s *exchangeRateService) RateInfo(fromCurrency, toCurrency string) *models.RateInfo {
	rate, source, sample := s.resolve(fromCurrency, toCurrency)

	info := &models.RateInfo{
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
		Rate:         rate,
		Source:       source,
	}
	if sample != nil {
		fetchedAt := sample.FetchedAt
		ageHours := time.Since(fetchedAt).Hours()
		info.FetchedAt = &fetchedAt
		info.AgeHours = &ageHours
	}
	return info
}

func (s *exchangeRateService) resolve(fromCurrency, toCurrency string) (decimal.Decimal, string, *models.ExchangeRate) {
	cached, err := s.rateRepo.Latest(fromCurrency, toCurrency)
	if err != nil && !errors.Is(err, repositories.ErrNoRateSample) {
		slog.Error("rate cache lookup failed", "error", err)
	}

	if cached != nil && cached.IsFresh(s.cfg.CacheTTL) {
		return cached.Rate, models.RateSourceCache, cached
	}

	if sample, err := s.fetchLive(fromCurrency, toCurrency); err == nil {
		return sample.Rate, models.RateSourceFresh, sample
	} else {
		slog.Warn("exchange rate API failed, using cached/fallback",
			"from", fromCurrency, "to", toCurrency, "error", err)
	}

	if cached != nil {
		return cached.Rate, models.RateSourceStaleCache, cached
	}

	return s.fallback, models.RateSourceFallback, nil
}

func (s *exchangeRateService) fetchLive(fromCurrency, toCurrency string) (*models.ExchangeRate, error) {
	url := fmt.Sprintf(s.cfg.APIURL, fromCurrency)
	resp, err := s.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]json.Number `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rate response: %w", err)
	}

	raw, ok := payload.Rates[toCurrency]
	if !ok {
		return nil, fmt.Errorf("rate API response missing %s", toCurrency)
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return nil, fmt.Errorf("invalid rate value %q: %w", raw, err)
	}

	sample := &models.ExchangeRate{
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
		Rate:         rate,
		FetchedAt:    time.Now().UTC(),
	}
	if err := s.rateRepo.Create(sample); err != nil {
		slog.Error("failed to cache rate sample", "error", err)
	}

	slog.Info("exchange rate fetched", "from", fromCurrency, "to", toCurrency, "rate", rate.String())
	return sample, nil
}
