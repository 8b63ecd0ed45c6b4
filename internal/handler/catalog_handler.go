package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/mockview-backend/internal/response"
	"github.com/stemsi/mockview-backend/internal/service"
)

// CatalogHandler exposes what can be practised without revealing scoring keys.
type CatalogHandler struct {
	questionService *service.QuestionService
}

func NewCatalogHandler(questionService *service.QuestionService) *CatalogHandler {
	return &CatalogHandler{questionService: questionService}
}

// GetCatalog godoc
// GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"catalog": h.questionService.Catalog()})
}
