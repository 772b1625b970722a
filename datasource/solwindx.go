package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"solwindx/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries a per-request identifier to the backend
const RequestIDHeader = "X-Request-ID"

// APIError is returned when the backend answers with a non-success status
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// SolWindXService implements PredictionService over the backend's HTTP API
type SolWindXService struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSolWindXService creates a client for the backend at baseURL
func NewSolWindXService(baseURL string, timeout time.Duration, logger *zap.Logger) *SolWindXService {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolWindXService{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name returns the service name
func (s *SolWindXService) Name() string {
	return "SolWindX"
}

// BaseURL returns the backend root the service talks to
func (s *SolWindXService) BaseURL() string {
	return s.baseURL
}

// FetchCities calls GET {base}/cities
func (s *SolWindXService) FetchCities(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/cities", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := s.do(req)
	if err != nil {
		return nil, err
	}

	var response models.CitiesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Cities == nil {
		return nil, fmt.Errorf("failed to parse response: missing cities")
	}

	return response.Cities, nil
}

// PredictEnergy calls POST {base}/predict-energy
func (s *SolWindXService) PredictEnergy(ctx context.Context, forecastReq models.ForecastRequest) (models.ForecastResponse, error) {
	payload, err := json.Marshal(forecastReq)
	if err != nil {
		return models.ForecastResponse{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/predict-energy", bytes.NewReader(payload))
	if err != nil {
		return models.ForecastResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := s.do(req)
	if err != nil {
		return models.ForecastResponse{}, err
	}

	var response models.ForecastResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.ForecastResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return response, nil
}

// do executes req and returns the body of a 2xx response
func (s *SolWindXService) do(req *http.Request) ([]byte, error) {
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	s.logger.Debug("backend call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// Ensure SolWindXService implements PredictionService
var _ PredictionService = (*SolWindXService)(nil)
