package ai

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
)

const signedContract = `SERVICE CONTRACT
This agreement is made between Acme Corp and Jane Doe. The contractor will build a web application.
Payment is due within 30 days of each milestone. Either party may terminate with 14 days written notice.
This agreement is governed by the laws of the State of California and disputes fall under its jurisdiction.
The contractor keeps the right to show the work in a portfolio. Confidential information stays private.

Signature: ____________  Date: ________
Signature: ____________  Date: ________`

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyze_UsesModelResponse(t *testing.T) {
	reply := "```json\n{\"riskLevel\":\"medium\",\"riskScore\":140,\"issues\":[{\"severity\":\"medium\",\"category\":\"legal\",\"description\":\"No IP clause\",\"suggestion\":\"Add IP clause\",\"location\":\"Section 3\"}],\"suggestions\":[\"Add IP clause\"],\"complianceScore\":70,\"readabilityScore\":85}\n```"
	srv := chatServer(t, http.StatusOK, reply)
	client := NewClient(srv.URL+"/v1", "test-model", time.Second)

	analysis, err := client.Analyze(context.Background(), signedContract, "contract")
	require.NoError(t, err)

	assert.Equal(t, SourceModel, analysis.Source)
	assert.Equal(t, LevelMedium, analysis.RiskLevel)
	assert.Equal(t, 100, analysis.RiskScore)
	assert.Len(t, analysis.Issues, 1)
	assert.Equal(t, 70, analysis.ComplianceScore)
}

func TestAnalyze_FallsBackOnProviderError(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError, "")
	client := NewClient(srv.URL+"/v1", "test-model", time.Second)

	analysis, err := client.Analyze(context.Background(), signedContract, "contract")
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, analysis.Source)
}

func TestAnalyze_FallsBackOnGarbage(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "I cannot help with that")
	client := NewClient(srv.URL+"/v1", "test-model", time.Second)

	analysis, err := client.Analyze(context.Background(), signedContract, "contract")
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, analysis.Source)
}

func TestAnalyze_Unconfigured(t *testing.T) {
	client := NewClient("", "", 0)
	assert.False(t, client.Configured())

	analysis, err := client.Analyze(context.Background(), signedContract, "contract")
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, analysis.Source)
}

func TestHeuristicAnalysis_CleanContract(t *testing.T) {
	analysis := HeuristicAnalysis(signedContract, "contract")

	assert.Empty(t, analysis.Issues)
	assert.Empty(t, analysis.Suggestions)
	assert.Equal(t, LevelLow, analysis.RiskLevel)
	assert.Equal(t, 0, analysis.RiskScore)
	assert.Equal(t, 100, analysis.ComplianceScore)
	assert.Equal(t, 100, analysis.ReadabilityScore)
}

func TestHeuristicAnalysis_FlagsProblems(t *testing.T) {
	content := "NDA between [NOT PROVIDED] and [NOT PROVIDED]. Effective [NOT PROVIDED]. Ref {{matter}}."
	analysis := HeuristicAnalysis(content, "nda")

	categories := map[string]int{}
	for _, issue := range analysis.Issues {
		categories[issue.Category]++
	}
	assert.Equal(t, 2, categories["completeness"])
	assert.Equal(t, 1, categories["legal"])
	assert.Equal(t, 1, categories["structure"])
	assert.Equal(t, LevelHigh, analysis.RiskLevel)
	assert.Equal(t, 95, analysis.RiskScore)
	assert.Zero(t, analysis.ComplianceScore)
}

func TestHeuristicAnalysis_Deterministic(t *testing.T) {
	content := strings.Repeat("The client pays the invoice. ", 30)
	assert.Equal(t, HeuristicAnalysis(content, "invoice"), HeuristicAnalysis(content, "invoice"))
}

func TestReadability_PenalisesLongSentences(t *testing.T) {
	long := strings.Repeat("word ", 40) + "."
	assert.Equal(t, 40, readability(long))
	assert.Equal(t, 0, readability("   "))
}
