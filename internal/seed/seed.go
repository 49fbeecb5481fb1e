// Package seed содержит встроенные шаблоны документов и комплаенс чек-листы.
package seed

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/render"
)

//go:embed data/templates/*.yaml data/checklists/*.yaml
var dataFS embed.FS

var tokenRe = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Поля, которые рендер рассчитывает сам.
var derivedFields = map[string]struct{}{
	render.FieldTax:         {},
	render.FieldTotal:       {},
	render.FieldTaxAmount:   {},
	render.FieldTotalAmount: {},
}

type templateFile struct {
	Country      string                `yaml:"country"`
	DocumentType string                `yaml:"documentType"`
	Industry     string                `yaml:"industry"`
	Name         string                `yaml:"name"`
	Description  string                `yaml:"description"`
	Version      int                   `yaml:"version"`
	Fields       models.TemplateFields `yaml:"fields"`
	Content      string                `yaml:"content"`
}

type checklistFile struct {
	Country      string                    `yaml:"country"`
	Industry     string                    `yaml:"industry"`
	Name         string                    `yaml:"name"`
	Description  string                    `yaml:"description"`
	Items        models.ChecklistItems     `yaml:"items"`
	TaxDeadlines models.TaxDeadlines       `yaml:"taxDeadlines"`
	Resources    models.ChecklistResources `yaml:"resources"`
}

// Templates разбирает встроенные шаблоны в порядке имён файлов.
func Templates() ([]models.DocumentTemplate, error) {
	files, err := yamlFiles("data/templates")
	if err != nil {
		return nil, err
	}

	templates := make([]models.DocumentTemplate, 0, len(files))
	seen := make(map[models.TemplateKey]string, len(files))
	for _, name := range files {
		var tf templateFile
		if err := decode(name, &tf); err != nil {
			return nil, err
		}
		t := models.DocumentTemplate{
			Country:         tf.Country,
			DocumentType:    tf.DocumentType,
			Industry:        tf.Industry,
			Name:            tf.Name,
			Description:     tf.Description,
			Fields:          tf.Fields,
			TemplateContent: tf.Content,
			Version:         tf.Version,
			IsActive:        true,
		}
		if t.Version <= 0 {
			t.Version = 1
		}
		if err := validateTemplate(&t); err != nil {
			return nil, fmt.Errorf("seed: %s: %w", name, err)
		}
		if prev, dup := seen[t.Key()]; dup {
			return nil, fmt.Errorf("seed: %s: ключ %s уже объявлен в %s", name, t.Key(), prev)
		}
		seen[t.Key()] = name
		templates = append(templates, t)
	}
	return templates, nil
}

// Checklists разбирает встроенные чек-листы в порядке имён файлов.
func Checklists() ([]models.ComplianceChecklist, error) {
	files, err := yamlFiles("data/checklists")
	if err != nil {
		return nil, err
	}

	checklists := make([]models.ComplianceChecklist, 0, len(files))
	for _, name := range files {
		var cf checklistFile
		if err := decode(name, &cf); err != nil {
			return nil, err
		}
		c := models.ComplianceChecklist{
			Country:      cf.Country,
			Industry:     cf.Industry,
			Name:         cf.Name,
			Description:  cf.Description,
			Items:        cf.Items,
			TaxDeadlines: cf.TaxDeadlines,
			Resources:    cf.Resources,
			IsActive:     true,
		}
		if err := validateChecklist(&c); err != nil {
			return nil, fmt.Errorf("seed: %s: %w", name, err)
		}
		checklists = append(checklists, c)
	}
	return checklists, nil
}

// FindTemplate ищет встроенный шаблон по ключу.
func FindTemplate(key models.TemplateKey) (*models.DocumentTemplate, error) {
	templates, err := Templates()
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].Key() == key {
			return &templates[i], nil
		}
	}
	return nil, fmt.Errorf("seed: шаблон %s не найден", key)
}

func yamlFiles(dir string) ([]string, error) {
	matches, err := fs.Glob(dataFS, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("seed: glob %s: %w", dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func decode(name string, out interface{}) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("seed: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("seed: parse %s: %w", name, err)
	}
	return nil
}

func validateTemplate(t *models.DocumentTemplate) error {
	if _, ok := models.ValidCountries[t.Country]; !ok {
		return fmt.Errorf("неизвестная страна %q", t.Country)
	}
	if _, ok := models.ValidDocumentTypes[t.DocumentType]; !ok {
		return fmt.Errorf("неизвестный тип документа %q", t.DocumentType)
	}
	if _, ok := models.ValidIndustries[t.Industry]; !ok {
		return fmt.Errorf("неизвестная отрасль %q", t.Industry)
	}
	if t.Name == "" || t.TemplateContent == "" {
		return fmt.Errorf("пустое имя или тело шаблона")
	}

	names := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if f.Name == "" {
			return fmt.Errorf("поле без имени")
		}
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("поле %q объявлено дважды", f.Name)
		}
		names[f.Name] = struct{}{}
		if _, ok := models.ValidFieldTypes[f.Type]; !ok {
			return fmt.Errorf("поле %q: неизвестный тип %q", f.Name, f.Type)
		}
		if f.Type == models.FieldTypeSelect && len(f.Options) == 0 {
			return fmt.Errorf("поле %q: select без вариантов", f.Name)
		}
		if (f.Min != nil || f.Max != nil) && f.Type != models.FieldTypeNumber {
			return fmt.Errorf("поле %q: границы допустимы только для number", f.Name)
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			return fmt.Errorf("поле %q: min больше max", f.Name)
		}
	}

	for _, m := range tokenRe.FindAllStringSubmatch(t.TemplateContent, -1) {
		token := m[1]
		if _, ok := names[token]; ok {
			continue
		}
		if _, ok := derivedFields[token]; ok {
			continue
		}
		return fmt.Errorf("переменная {{%s}} не объявлена среди полей", token)
	}
	return nil
}

func validateChecklist(c *models.ComplianceChecklist) error {
	if _, ok := models.ValidCountries[c.Country]; !ok {
		return fmt.Errorf("неизвестная страна %q", c.Country)
	}
	if _, ok := models.ValidIndustries[c.Industry]; !ok {
		return fmt.Errorf("неизвестная отрасль %q", c.Industry)
	}
	ids := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		if _, dup := ids[item.ID]; dup || item.ID == "" {
			return fmt.Errorf("пункт %q: пустой или повторяющийся id", item.ID)
		}
		ids[item.ID] = struct{}{}
		switch item.Priority {
		case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		default:
			return fmt.Errorf("пункт %q: неизвестный приоритет %q", item.ID, item.Priority)
		}
	}
	return nil
}
