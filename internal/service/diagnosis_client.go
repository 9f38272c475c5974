package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"telemed-platform/config"

	"github.com/sirupsen/logrus"
)

// ErrDiagnosisUnavailable wraps any failure of the external diagnosis engine.
var ErrDiagnosisUnavailable = errors.New("diagnosis engine unavailable")

// DiagnosisClient is the boundary to the external symptom-assessment API.
type DiagnosisClient interface {
	Assess(ctx context.Context, req DiagnosisRequest) (*DiagnosisResult, error)
}

type DiagnosisRequest struct {
	Age      int    `json:"age"`
	Sex      string `json:"sex"`
	Symptoms string `json:"symptoms"`
}

type DiagnosisCondition struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

type DiagnosisResult struct {
	Conditions  []DiagnosisCondition `json:"conditions"`
	TriageLevel string               `json:"triage_level"`
	Advice      string               `json:"advice,omitempty"`
}

type httpDiagnosisClient struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	log        *logrus.Logger
}

func NewDiagnosisClient(cfg config.DiagnosisConfig, log *logrus.Logger) DiagnosisClient {
	return &httpDiagnosisClient{
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

func (c *httpDiagnosisClient) Assess(ctx context.Context, req DiagnosisRequest) (*DiagnosisResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/assessments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warnf("Diagnosis engine request failed: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrDiagnosisUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warnf("Diagnosis engine returned status %d", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrDiagnosisUnavailable, resp.StatusCode)
	}

	var result DiagnosisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiagnosisUnavailable, err)
	}

	return &result, nil
}
