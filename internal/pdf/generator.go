// Package pdf собирает PDF из текста сгенерированного документа.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// WatermarkText печатается по диагонали на страницах бесплатного тарифа.
const WatermarkText = "DocMint Free"

const (
	fontFamily   = "Helvetica"
	bodyFontSize = 10.5
	lineHeight   = 5.2
	margin       = 20.0
)

// Document входные данные для генерации.
type Document struct {
	Title         string
	Content       string
	IsWatermarked bool
	Author        string
	Subject       string
	CreatedAt     time.Time
}

// Generator строит PDF формата A4.
type Generator struct {
	creator string
}

// NewGenerator создаёт генератор. creator попадает в метаданные файла.
func NewGenerator(creator string) *Generator {
	if creator == "" {
		creator = "DocMint"
	}
	return &Generator{creator: creator}
}

// Generate возвращает PDF. Для одинакового входа результат побайтно совпадает.
func (g *Generator) Generate(doc Document) ([]byte, error) {
	p := fpdf.New("P", "mm", "A4", "")
	tr := p.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(toLatin(s)) }

	created := doc.CreatedAt
	if created.IsZero() {
		created = time.Unix(0, 0)
	}
	p.SetCreationDate(created.UTC())
	p.SetCatalogSort(true)
	p.SetTitle(doc.Title, true)
	p.SetSubject(doc.Subject, true)
	p.SetAuthor(doc.Author, true)
	p.SetCreator(g.creator, true)

	p.SetMargins(margin, margin, margin)
	p.SetAutoPageBreak(true, margin)
	p.AliasNbPages("")

	if doc.IsWatermarked {
		p.SetHeaderFunc(func() { drawWatermark(p) })
	}
	p.SetFooterFunc(func() {
		p.SetY(-12)
		p.SetFont(fontFamily, "I", 8)
		p.SetTextColor(130, 130, 130)
		p.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", p.PageNo()), "", 0, "C", false, 0, "")
	})

	p.AddPage()

	p.SetFont(fontFamily, "B", 14)
	p.SetTextColor(20, 20, 20)
	p.MultiCell(0, 7, text(doc.Title), "", "L", false)
	p.Ln(4)

	p.SetFont(fontFamily, "", bodyFontSize)
	for _, line := range strings.Split(normalizeNewlines(doc.Content), "\n") {
		if strings.TrimSpace(line) == "" {
			p.Ln(lineHeight)
			continue
		}
		p.MultiCell(0, lineHeight, text(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: генерация не удалась: %w", err)
	}
	return buf.Bytes(), nil
}

// drawWatermark рисует полупрозрачную надпись под текстом страницы.
func drawWatermark(p *fpdf.Fpdf) {
	w, h := p.GetPageSize()

	p.SetFont(fontFamily, "B", 54)
	p.SetTextColor(200, 200, 200)
	p.SetAlpha(0.35, "Normal")
	p.TransformBegin()
	p.TransformRotate(45, w/2, h/2)
	width := p.GetStringWidth(WatermarkText)
	p.Text(w/2-width/2, h/2, WatermarkText)
	p.TransformEnd()
	p.SetAlpha(1, "Normal")

	p.SetTextColor(20, 20, 20)
	p.SetFont(fontFamily, "", bodyFontSize)
	p.SetXY(margin, margin)
}

var latinReplacer = strings.NewReplacer(
	"₹", "Rs. ",
	"─", "-",
	"—", "-",
	"–", "-",
	"“", "\"",
	"”", "\"",
	"‘", "'",
	"’", "'",
	"⚠️", "",
	"⚠", "",
	"\t", "    ",
)

// toLatin заменяет символы, которых нет во встроенных шрифтах.
func toLatin(s string) string {
	return latinReplacer.Replace(s)
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}
