package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/pdf"
	"github.com/ignatzorin/docmint-backend/internal/render"
	"github.com/ignatzorin/docmint-backend/internal/seed"
	"github.com/ignatzorin/docmint-backend/internal/service"
	"github.com/ignatzorin/docmint-backend/internal/validation"
)

type renderOptions struct {
	key         models.TemplateKey
	valuesPath  string
	pdfPath     string
	watermarked bool
	strict      bool
}

func renderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Сгенерировать документ из встроенного шаблона без базы",
		Long: `Подставляет значения из YAML файла во встроенный шаблон и печатает текст.
Незаполненные поля выводятся как [NOT PROVIDED].

Примеры:
  docmintctl render --country US --type invoice --values invoice.yaml
  docmintctl render --country India --type contract --values c.yaml --pdf out.pdf --watermark`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.key.Country, "country", "", "страна (US, India)")
	cmd.Flags().StringVar(&opts.key.DocumentType, "type", "", "тип документа (contract, nda, invoice, proposal, quotation)")
	cmd.Flags().StringVar(&opts.key.Industry, "industry", models.IndustryTech, "отрасль")
	cmd.Flags().StringVar(&opts.valuesPath, "values", "", "YAML файл со значениями полей")
	cmd.Flags().StringVar(&opts.pdfPath, "pdf", "", "дополнительно записать PDF в файл")
	cmd.Flags().BoolVar(&opts.watermarked, "watermark", false, "добавить водяной знак бесплатного тарифа")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "прервать рендер при ошибках валидации полей")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runRender(cmd *cobra.Command, opts renderOptions) error {
	tpl, err := seed.FindTemplate(opts.key)
	if err != nil {
		return err
	}

	values := map[string]interface{}{}
	if opts.valuesPath != "" {
		raw, err := os.ReadFile(opts.valuesPath)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := yaml.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("render: разбор %s: %w", opts.valuesPath, err)
		}
		normalizeDates(values)
	}

	if errs := validation.ValidateFieldValues(tpl.Fields, values); !errs.Empty() {
		if opts.strict {
			return fmt.Errorf("render: поля заполнены некорректно: %s", formatErrors(errs))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", formatErrors(errs))
	}

	content := render.Render(tpl.TemplateContent, render.Complete(values, tpl.Fields.Names()))
	fmt.Fprintln(cmd.OutOrStdout(), content)

	if opts.pdfPath == "" {
		return nil
	}

	out, err := pdf.NewGenerator("docmintctl").Generate(pdf.Document{
		Title:         service.DocumentTitle(tpl.Name, values),
		Content:       content,
		IsWatermarked: opts.watermarked,
		Subject:       tpl.DocumentType + " - " + tpl.Country,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(opts.pdfPath, out, 0o644)
}

// normalizeDates возвращает даты без кавычек (yaml разбирает их в time.Time)
// к виду YYYY-MM-DD, как их присылает API.
func normalizeDates(values map[string]interface{}) {
	for k, v := range values {
		if t, ok := v.(time.Time); ok {
			values[k] = t.Format(validation.DateLayout)
		}
	}
}

func formatErrors(errs validation.Errors) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+errs[k])
	}
	return strings.Join(parts, "; ")
}
