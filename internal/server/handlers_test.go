package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgower/vantage/internal/app"
	"github.com/rgower/vantage/internal/common"
	"github.com/rgower/vantage/internal/currency"
	"github.com/rgower/vantage/internal/interfaces"
	"github.com/rgower/vantage/internal/models"
)

// stubPortfolio implements interfaces.PortfolioService with canned state.
type stubPortfolio struct {
	investments []models.Investment
	goal        *models.Goal
	updateErr   error
	lastUserID  string
}

func (s *stubPortfolio) List(ctx context.Context) ([]models.Investment, error) {
	s.lastUserID = common.ResolveUserID(ctx)
	return s.investments, nil
}

func (s *stubPortfolio) Create(ctx context.Context, draft *models.InvestmentDraft) (string, error) {
	inv, err := draft.Parse()
	if err != nil {
		return "", err
	}
	_ = inv
	return "new-id", nil
}

func (s *stubPortfolio) Update(ctx context.Context, id string, patch *models.InvestmentPatch) error {
	return s.updateErr
}

func (s *stubPortfolio) Delete(ctx context.Context, id string) error { return nil }

func (s *stubPortfolio) Goal(ctx context.Context) (*models.Goal, error) { return s.goal, nil }

func (s *stubPortfolio) SaveGoal(ctx context.Context, draft *models.GoalDraft) (*models.Goal, error) {
	return draft.Parse()
}

func (s *stubPortfolio) Metrics(ctx context.Context) (*models.PortfolioMetrics, error) {
	return &models.PortfolioMetrics{TotalValue: 100}, nil
}

func (s *stubPortfolio) Subscribe(ctx context.Context) (interfaces.Subscription, error) {
	return nil, nil
}

var _ interfaces.PortfolioService = (*stubPortfolio)(nil)

// stubAnalysis implements interfaces.AnalysisService, returning a fixed error
// or canned results.
type stubAnalysis struct {
	err error
}

func (s *stubAnalysis) SummarizeReport(ctx context.Context, company string) (*models.ReportSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.ReportSummary{CompanyName: company}, nil
}

func (s *stubAnalysis) PlanScenario(ctx context.Context, scenario string) (*models.ScenarioImpact, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.ScenarioImpact{ScenarioTitle: scenario}, nil
}

func (s *stubAnalysis) ScanOpportunities(ctx context.Context) (*models.RadarAlerts, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.RadarAlerts{}, nil
}

var _ interfaces.AnalysisService = (*stubAnalysis)(nil)

func newTestServer(portfolio *stubPortfolio, analysis *stubAnalysis) *Server {
	a := &app.App{
		Config:           common.NewDefaultConfig(),
		Logger:           common.NewSilentLogger(),
		PortfolioService: portfolio,
		AnalysisService:  analysis,
		Currency:         currency.NewConverter(),
		StartupTime:      time.Now(),
	}
	return NewServer(a)
}

func doRequest(t *testing.T, srv *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubPortfolio{}, &stubAnalysis{})
	rec := doRequest(t, srv, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(&stubPortfolio{}, &stubAnalysis{})
	rec := doRequest(t, srv, http.MethodGet, "/api/version", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["version"])
}

func TestHandlePortfolioList(t *testing.T) {
	portfolio := &stubPortfolio{investments: []models.Investment{
		{ID: "a", Name: "Apple", Ticker: "AAPL"},
	}}
	srv := newTestServer(portfolio, &stubAnalysis{})

	rec := doRequest(t, srv, http.MethodGet, "/api/portfolio", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Investments []models.Investment `json:"investments"`
		Count       int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "AAPL", resp.Investments[0].Ticker)
}

func TestHandlePortfolioListUserHeader(t *testing.T) {
	portfolio := &stubPortfolio{}
	srv := newTestServer(portfolio, &stubAnalysis{})

	doRequest(t, srv, http.MethodGet, "/api/portfolio", "", map[string]string{
		"X-Vantage-User-ID": "alice",
	})
	assert.Equal(t, "alice", portfolio.lastUserID)

	doRequest(t, srv, http.MethodGet, "/api/portfolio", "", nil)
	assert.Equal(t, "default", portfolio.lastUserID)
}

func TestHandlePortfolioCreate(t *testing.T) {
	srv := newTestServer(&stubPortfolio{}, &stubAnalysis{})

	rec := doRequest(t, srv, http.MethodPost, "/api/portfolio",
		`{"name":"Apple","ticker":"AAPL","quantity":"10","buyPrice":"150"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"new-id"}`, rec.Body.String())
}

func TestHandlePortfolioCreateInvalid(t *testing.T) {
	srv := newTestServer(&stubPortfolio{}, &stubAnalysis{})

	rec := doRequest(t, srv, http.MethodPost, "/api/portfolio",
		`{"name":"Apple","ticker":"AAPL","quantity":"ten","buyPrice":"150"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "quantity")
}

func TestHandlePortfolioUpdateNotFound(t *testing.T) {
	portfolio := &stubPortfolio{updateErr: &models.NotFoundError{Resource: "investment", ID: "missing"}}
	srv := newTestServer(portfolio, &stubAnalysis{})

	rec := doRequest(t, srv, http.MethodPatch, "/api/portfolio/missing",
		`{"currentPrice":"175"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePortfolioDelete(t *testing.T) {
	srv := newTestServer(&stubPortfolio{}, &stubAnalysis{})

	rec := doRequest(t, srv, http.MethodDelete, "/api/portfolio/some-id", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deleted")
}

func TestHandleGoal(t *testing.T) {
	srv := newTestServer(&stubPortfolio{}, &stubAnalysis{})

	// Unset goal reads as null.
	rec := doRequest(t, srv, http.MethodGet, "/api/goal", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"goal":null}`, rec.Body.String())

	rec = doRequest(t, srv, http.MethodPut, "/api/goal",
		`{"goalAmount":"50000","targetDate":"2030-01-01"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "50000")
}

func TestHandleMetricsDisplayCurrency(t *testing.T) {
	srv := newTestServer(&stubPortfolio{}, &stubAnalysis{})

	rec := doRequest(t, srv, http.MethodGet, "/api/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"display_currency":"USD"`)
	assert.Contains(t, rec.Body.String(), "$100.00")

	rec = doRequest(t, srv, http.MethodGet, "/api/metrics", "", map[string]string{
		"X-Vantage-Display-Currency": "INR",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	// 100 USD * 83.5 = 8350 INR
	assert.Contains(t, rec.Body.String(), `"display_currency":"INR"`)
	assert.Contains(t, rec.Body.String(), "8,350.00")
}

func TestHandleAnalysisReport(t *testing.T) {
	srv := newTestServer(&stubPortfolio{}, &stubAnalysis{})

	rec := doRequest(t, srv, http.MethodPost, "/api/analysis/report",
		`{"company":"Apple Inc."}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Apple Inc.")
}

func TestHandleAnalysisBusyMapsTo409(t *testing.T) {
	analysis := &stubAnalysis{err: &models.AIError{Kind: models.AIErrorBusy}}
	srv := newTestServer(&stubPortfolio{}, analysis)

	rec := doRequest(t, srv, http.MethodPost, "/api/analysis/radar", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"busy"`)
}

func TestHandleAnalysisNetworkMapsTo502(t *testing.T) {
	analysis := &stubAnalysis{err: &models.AIError{Kind: models.AIErrorNetwork, Detail: "timeout"}}
	srv := newTestServer(&stubPortfolio{}, analysis)

	rec := doRequest(t, srv, http.MethodPost, "/api/analysis/scenario",
		`{"scenario":"crash"}`, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"network"`)
}

func TestHandleAnalysisSchemaViolationCarriesPath(t *testing.T) {
	analysis := &stubAnalysis{err: &models.AIError{
		Kind: models.AIErrorSchemaViolation,
		Path: "estimatedNewValue",
	}}
	srv := newTestServer(&stubPortfolio{}, analysis)

	rec := doRequest(t, srv, http.MethodPost, "/api/analysis/scenario",
		`{"scenario":"crash"}`, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"path":"estimatedNewValue"`)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubPortfolio{}, &stubAnalysis{})

	rec := doRequest(t, srv, http.MethodDelete, "/api/metrics", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&stubPortfolio{}, &stubAnalysis{})

	rec := doRequest(t, srv, http.MethodOptions, "/api/portfolio", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorrelationIDEchoed(t *testing.T) {
	srv := newTestServer(&stubPortfolio{}, &stubAnalysis{})

	rec := doRequest(t, srv, http.MethodGet, "/api/health", "", map[string]string{
		"X-Request-ID": "abc123",
	})
	assert.Equal(t, "abc123", rec.Header().Get("X-Correlation-ID"))

	rec = doRequest(t, srv, http.MethodGet, "/api/health", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}
