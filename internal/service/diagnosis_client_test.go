package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"telemed-platform/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/assessments", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req DiagnosisRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 34, req.Age)
		assert.Equal(t, "headache and fever", req.Symptoms)

		json.NewEncoder(w).Encode(DiagnosisResult{
			Conditions:  []DiagnosisCondition{{Name: "Influenza", Probability: 0.72}},
			TriageLevel: "self_care",
		})
	}))
	defer srv.Close()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	client := NewDiagnosisClient(config.DiagnosisConfig{BaseURL: srv.URL, APIToken: "test-token"}, log)

	result, err := client.Assess(context.Background(), DiagnosisRequest{
		Age:      34,
		Sex:      "female",
		Symptoms: "headache and fever",
	})
	require.NoError(t, err)
	require.Len(t, result.Conditions, 1)
	assert.Equal(t, "Influenza", result.Conditions[0].Name)
	assert.Equal(t, "self_care", result.TriageLevel)
}

func TestAssessWrapsUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	client := NewDiagnosisClient(config.DiagnosisConfig{BaseURL: srv.URL}, log)

	_, err := client.Assess(context.Background(), DiagnosisRequest{Age: 34, Sex: "male", Symptoms: "cough"})
	assert.ErrorIs(t, err, ErrDiagnosisUnavailable)
}

func TestAssessUnreachableEngine(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	client := NewDiagnosisClient(config.DiagnosisConfig{BaseURL: "http://127.0.0.1:1"}, log)

	_, err := client.Assess(context.Background(), DiagnosisRequest{Age: 34, Sex: "male", Symptoms: "cough"})
	assert.ErrorIs(t, err, ErrDiagnosisUnavailable)
}
