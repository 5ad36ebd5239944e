package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
	"github.com/vendorpay/vendorpay_backend/internal/dto"
	"github.com/vendorpay/vendorpay_backend/internal/middleware"
	"github.com/vendorpay/vendorpay_backend/pkg/config"
)

// documentHandler handles HTTP requests related to documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
	uploadDir       string
	maxUploadBytes  int64
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(ds portssvc.DocumentSvcFacade, cfg *config.Config) *documentHandler {
	return &documentHandler{
		documentService: ds,
		uploadDir:       cfg.UploadDir,
		maxUploadBytes:  cfg.MaxUploadSizeBytes,
	}
}

// registerDocumentRoutes registers routes related to documents.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, cfg *config.Config, rateLimit gin.HandlerFunc) {
	h := newDocumentHandler(documentService, cfg)

	documents := rg.Group("/documents")
	{
		documents.POST("/upload", rateLimit, h.uploadDocument)
		documents.POST("/:documentID/process", rateLimit, h.processDocument)
		documents.GET("/pending", h.listPendingDocuments)
		documents.GET("/:documentID", h.getDocument)
	}
}

// uploadDocument accepts one multipart file, stores it under the upload
// directory with a generated name, and registers a pending document
// record keyed by the content hash.
func (h *documentHandler) uploadDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file in request: " + err.Error()})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("File exceeds maximum size of %d bytes", h.maxUploadBytes)})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		logger.Error("Failed to create upload directory", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}

	storedName := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	storedPath := filepath.Join(h.uploadDir, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		logger.Error("Failed to create stored file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}
	defer dst.Close()

	// Hash while copying so the bytes are only read once.
	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(dst, hasher), src)
	if err != nil {
		_ = os.Remove(storedPath)
		logger.Error("Failed to write stored file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}

	req := dto.RegisterUploadRequest{
		OriginalName: fileHeader.Filename,
		StoredName:   storedName,
		FilePath:     storedPath,
		Source:       "upload",
		DocTypeHint:  c.PostForm("docType"),
		SizeBytes:    size,
		ContentHash:  hex.EncodeToString(hasher.Sum(nil)),
	}

	doc, err := h.documentService.RegisterUpload(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// The stored copy is redundant, the existing record wins.
			_ = os.Remove(storedPath)
			c.JSON(http.StatusConflict, gin.H{
				"error":    "Document with identical content already exists",
				"document": dto.ToDocumentResponse(doc),
			})
			return
		}
		_ = os.Remove(storedPath)
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to register upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register upload"})
		return
	}

	logger.Info("Document uploaded", slog.String("document_id", doc.DocumentID), slog.String("original_name", doc.OriginalName))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// processDocument runs the extraction pipeline over a pending document.
func (h *documentHandler) processDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	doc, err := h.documentService.Process(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to process document", slog.String("document_id", documentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process document"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// listPendingDocuments returns the processing queue, oldest first.
func (h *documentHandler) listPendingDocuments(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}

	docs, err := h.documentService.ListPendingDocuments(c.Request.Context(), limit)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list pending documents", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending documents"})
		return
	}

	responses := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, dto.ToDocumentResponse(&docs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"documents": responses, "count": len(responses)})
}

// getDocument retrieves a document record by ID.
func (h *documentHandler) getDocument(c *gin.Context) {
	documentID := c.Param("documentID")

	doc, err := h.documentService.GetDocumentByID(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get document", slog.String("document_id", documentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get document"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}
