package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/docmint-backend/internal/dto"
	"github.com/ignatzorin/docmint-backend/internal/http/response"
	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/service"
)

// DocumentService операции с документами пользователя.
type DocumentService interface {
	Generate(ctx context.Context, userID uuid.UUID, in service.GenerateInput) (*service.GenerateResult, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.GeneratedDocument, error)
	Get(ctx context.Context, userID, docID uuid.UUID) (*models.GeneratedDocument, error)
	Save(ctx context.Context, userID, docID uuid.UUID) (*models.GeneratedDocument, error)
	Delete(ctx context.Context, userID, docID uuid.UUID) error
}

// PDFExporter выдаёт PDF документа.
type PDFExporter interface {
	Export(ctx context.Context, userID, docID uuid.UUID) (*service.PDFExport, error)
	Evict(ctx context.Context, docID uuid.UUID)
}

// DocumentHandler HTTP слой генерации и хранения документов.
type DocumentHandler struct {
	docs DocumentService
	pdf  PDFExporter
}

// NewDocumentHandler создаёт хэндлер.
func NewDocumentHandler(docs DocumentService, pdf PDFExporter) *DocumentHandler {
	return &DocumentHandler{docs: docs, pdf: pdf}
}

// Generate обрабатывает POST /api/documents/generate.
func (h *DocumentHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.GenerateInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.docs.Generate(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"document": result})
}

// List обрабатывает GET /api/documents/list.
func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	docs, err := h.docs.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewDocumentListResponse(docs))
}

// Get обрабатывает GET /api/documents/:id.
func (h *DocumentHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	docID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.docs.Get(c.Request.Context(), userID, docID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc})
}

// Save обрабатывает POST /api/documents/:id/save.
func (h *DocumentHandler) Save(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	docID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.docs.Save(c.Request.Context(), userID, docID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc})
}

// Delete обрабатывает DELETE /api/documents/:id.
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	docID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.docs.Delete(c.Request.Context(), userID, docID); err != nil {
		response.Error(c, err)
		return
	}
	h.pdf.Evict(c.Request.Context(), docID)

	response.Success(c, dto.DeletedResponse{Deleted: true})
}

// PDF обрабатывает GET /api/documents/pdf?documentId=.
func (h *DocumentHandler) PDF(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	docID, err := uuid.Parse(c.Query("documentId"))
	if err != nil {
		response.BadRequest(c, "documentId обязателен")
		return
	}

	export, err := h.pdf.Export(c.Request.Context(), userID, docID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Data(http.StatusOK, "application/pdf", export.Content)
}
