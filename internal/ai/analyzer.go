package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/docmint-backend/internal/logger"
)

// Уровни риска и серьёзности замечаний.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Источник результата анализа.
const (
	SourceModel     = "model"
	SourceHeuristic = "heuristic"
)

// maxPromptChars ограничивает объём текста документа в запросе.
const maxPromptChars = 12000

// Issue замечание к документу.
type Issue struct {
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
	Location    string `json:"location"`
}

// Analysis результат анализа документа.
type Analysis struct {
	RiskLevel        string   `json:"riskLevel"`
	RiskScore        int      `json:"riskScore"`
	Issues           []Issue  `json:"issues"`
	Suggestions      []string `json:"suggestions"`
	ComplianceScore  int      `json:"complianceScore"`
	ReadabilityScore int      `json:"readabilityScore"`
	Source           string   `json:"source"`
}

// Analyze оценивает риски документа через модель. Если провайдер не настроен
// или ответил ошибкой, возвращается эвристическая оценка. Ошибку метод не возвращает
// ни в одном из этих случаев.
func (c *Client) Analyze(ctx context.Context, content, documentType string) (*Analysis, error) {
	if !c.Configured() {
		return HeuristicAnalysis(content, documentType), nil
	}

	text := content
	if utf8.RuneCountInString(text) > maxPromptChars {
		text = string([]rune(text)[:maxPromptChars])
	}

	prompt := fmt.Sprintf(`Проанализируй документ типа "%s" и найди:
1. Юридические риски
2. Отсутствующие важные условия
3. Проблемы соответствия требованиям
4. Проблемы читаемости

Верни только JSON:
{"riskLevel":"low|medium|high","riskScore":0-100,"issues":[{"severity":"low|medium|high","category":"","description":"","suggestion":"","location":""}],"suggestions":[""],"complianceScore":0-100,"readabilityScore":0-100}

Документ:
%s`, documentType, text)

	messages := []map[string]string{
		{"role": "system", "content": "Ты юрист, который проверяет шаблонные договоры и счета для фрилансеров."},
		{"role": "user", "content": prompt},
	}

	reply, err := c.chatCompletion(ctx, messages)
	if err == nil {
		if analysis, ok := parseAnalysis(reply); ok {
			analysis.Source = SourceModel
			return analysis, nil
		}
		err = fmt.Errorf("ai: не удалось разобрать ответ модели")
	}

	logger.L().WithFields(logrus.Fields{
		"document_type": documentType,
		"error":         err.Error(),
	}).Warn("ai: анализ моделью не удался, используем эвристику")

	return HeuristicAnalysis(content, documentType), nil
}

func parseAnalysis(reply string) (*Analysis, bool) {
	raw, ok := extractJSON(reply)
	if !ok {
		return nil, false
	}

	var analysis Analysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, false
	}

	switch analysis.RiskLevel {
	case LevelLow, LevelMedium, LevelHigh:
	default:
		analysis.RiskLevel = levelForScore(analysis.RiskScore)
	}
	analysis.RiskScore = clamp(analysis.RiskScore)
	analysis.ComplianceScore = clamp(analysis.ComplianceScore)
	analysis.ReadabilityScore = clamp(analysis.ReadabilityScore)
	if analysis.Issues == nil {
		analysis.Issues = []Issue{}
	}
	if analysis.Suggestions == nil {
		analysis.Suggestions = []string{}
	}
	return &analysis, true
}

func levelForScore(score int) string {
	switch {
	case score >= 60:
		return LevelHigh
	case score >= 30:
		return LevelMedium
	default:
		return LevelLow
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// normalizeSpace схлопывает пробельные символы.
func normalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
