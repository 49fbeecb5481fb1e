package ai

import (
	"fmt"
	"strings"
)

// placeholderMarker текст, который рендер подставляет вместо пустых полей.
const placeholderMarker = "[NOT PROVIDED]"

const minDocumentLength = 400

// Типы документов, которым нужен блок подписей.
var signedDocumentTypes = map[string]struct{}{
	"contract":  {},
	"nda":       {},
	"agreement": {},
	"proposal":  {},
}

var severityWeight = map[string]int{
	LevelHigh:   30,
	LevelMedium: 15,
	LevelLow:    5,
}

// HeuristicAnalysis детерминированная оценка документа без обращения к модели.
func HeuristicAnalysis(content, documentType string) *Analysis {
	issues := []Issue{}
	suggestions := []string{}
	lower := strings.ToLower(content)

	if n := strings.Count(content, placeholderMarker); n > 0 {
		severity := LevelMedium
		if n >= 3 {
			severity = LevelHigh
		}
		issues = append(issues, Issue{
			Severity:    severity,
			Category:    "completeness",
			Description: fmt.Sprintf("В документе %d незаполненных полей", n),
			Suggestion:  "Заполните все поля перед отправкой документа",
			Location:    placeholderMarker,
		})
	}

	if strings.Contains(content, "{{") && strings.Contains(content, "}}") {
		issues = append(issues, Issue{
			Severity:    LevelHigh,
			Category:    "completeness",
			Description: "В документе остались неподставленные переменные шаблона",
			Suggestion:  "Проверьте шаблон и значения полей",
			Location:    "{{...}}",
		})
	}

	if _, needsSignature := signedDocumentTypes[documentType]; needsSignature && !strings.Contains(lower, "signature") {
		issues = append(issues, Issue{
			Severity:    LevelHigh,
			Category:    "legal",
			Description: "Отсутствует блок подписей сторон",
			Suggestion:  "Добавьте подписи, имена и даты для обеих сторон",
			Location:    "конец документа",
		})
	}

	if len(strings.TrimSpace(content)) < minDocumentLength {
		issues = append(issues, Issue{
			Severity:    LevelLow,
			Category:    "structure",
			Description: "Документ слишком короткий для полноценного соглашения",
			Suggestion:  "Опишите объём работ, сроки и порядок оплаты подробнее",
			Location:    "весь документ",
		})
	}

	if documentType == "invoice" && !strings.Contains(lower, "due") {
		suggestions = append(suggestions, "Укажите срок оплаты счёта")
	}
	if !strings.Contains(lower, "governing law") && !strings.Contains(lower, "jurisdiction") {
		suggestions = append(suggestions, "Добавьте пункт о применимом праве и юрисдикции")
	}
	if !strings.Contains(lower, "terminat") && documentType != "invoice" && documentType != "quotation" {
		suggestions = append(suggestions, "Опишите условия расторжения")
	}

	risk := 0
	for _, issue := range issues {
		risk += severityWeight[issue.Severity]
	}
	risk = clamp(risk)

	compliance := clamp(100 - risk - 5*len(suggestions))

	return &Analysis{
		RiskLevel:        levelForScore(risk),
		RiskScore:        risk,
		Issues:           issues,
		Suggestions:      suggestions,
		ComplianceScore:  compliance,
		ReadabilityScore: readability(content),
		Source:           SourceHeuristic,
	}
}

// readability штрафует длинные предложения: до 20 слов в среднем считается нормой.
func readability(content string) int {
	text := normalizeSpace(content)
	if text == "" {
		return 0
	}

	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	words, count := 0, 0
	for _, s := range sentences {
		if n := len(strings.Fields(s)); n > 0 {
			words += n
			count++
		}
	}
	if count == 0 {
		return 0
	}

	avg := words / count
	if avg <= 20 {
		return 100
	}
	return clamp(100 - (avg-20)*3)
}
