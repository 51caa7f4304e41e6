package analysis

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"hange-backend/internal/cache"
	"hange-backend/internal/documents"
	"hange-backend/internal/extract"
	"hange-backend/internal/shared/server/respond"
)

const maxUploadSize = 20 << 20 // 20MB

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc   *Service
	Docs  *documents.Service
	Cache cache.Store
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, docs *documents.Service, store cache.Store) *Handler {
	return &Handler{Svc: svc, Docs: docs, Cache: store}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/analyze", h.analyze)
	rg.GET("/cache/stats", h.cacheStats)
}

type analyzeResponse struct {
	DocumentID       string            `json:"document_id,omitempty"`
	FileName         string            `json:"file_name"`
	Analysis         DocumentAnalysis  `json:"analysis"`
	ValidationIssues []ValidationIssue `json:"validation_issues"`
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	documentType := c.PostForm("document_type")
	if documentType == "" {
		documentType = extract.TypeFromFilename(fileHeader.Filename)
	}

	var documentID string
	if h.Docs != nil {
		doc, err := h.Docs.Ingest(c.Request.Context(), fileHeader.Filename, documentType, data)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to store document", nil)
			return
		}
		documentID = doc.ID
	}

	result, err := h.Svc.ProcessDocument(c.Request.Context(), data, documentType)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "unsupported_type", err.Error(), nil)
		case errors.Is(err, ErrNoTextContent):
			respond.Error(c, http.StatusUnprocessableEntity, "no_text_content", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "analysis failed", nil)
		}
		return
	}

	issues := h.Svc.Validate(result.FormFields)
	if issues == nil {
		issues = []ValidationIssue{}
	}

	respond.OK(c, analyzeResponse{
		DocumentID:       documentID,
		FileName:         fileHeader.Filename,
		Analysis:         result,
		ValidationIssues: issues,
	})
}

func (h *Handler) cacheStats(c *gin.Context) {
	if h.Cache == nil {
		respond.OK(c, cache.Stats{})
		return
	}
	stats, err := h.Cache.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to read cache stats", nil)
		return
	}
	respond.OK(c, stats)
}
