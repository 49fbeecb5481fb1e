package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/docmint-backend/internal/dto"
	"github.com/ignatzorin/docmint-backend/internal/http/response"
	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/service"
)

// TemplateService справочники мастера и схемы полей шаблонов.
type TemplateService interface {
	Catalog() models.Catalog
	View(ctx context.Context, key models.TemplateKey) (*service.TemplateView, error)
}

// ChecklistService комплаенс чек-листы.
type ChecklistService interface {
	Get(ctx context.Context, country, industry string) (*models.ComplianceChecklist, error)
}

// TemplateHandler отдаёт данные для шагов мастера генерации.
type TemplateHandler struct {
	templates  TemplateService
	checklists ChecklistService
}

// NewTemplateHandler создаёт хэндлер.
func NewTemplateHandler(templates TemplateService, checklists ChecklistService) *TemplateHandler {
	return &TemplateHandler{templates: templates, checklists: checklists}
}

// Catalog обрабатывает GET /api/catalog.
func (h *TemplateHandler) Catalog(c *gin.Context) {
	response.Success(c, h.templates.Catalog())
}

// Template обрабатывает GET /api/templates?country=&documentType=&industry=.
func (h *TemplateHandler) Template(c *gin.Context) {
	var q dto.TemplateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation("некорректные параметры запроса", map[string]string{"query": err.Error()}))
		return
	}
	q.Normalize()
	key := models.TemplateKey{Country: q.Country, DocumentType: q.DocumentType, Industry: q.Industry}

	view, err := h.templates.View(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"template": view})
}

// Checklist обрабатывает GET /api/checklist/:country?industry=.
func (h *TemplateHandler) Checklist(c *gin.Context) {
	checklist, err := h.checklists.Get(c.Request.Context(), c.Param("country"), c.Query("industry"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"checklist": checklist})
}
