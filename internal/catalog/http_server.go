package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HTTPServer 目录只读接口。
type HTTPServer struct {
	repo *Repo
}

func NewHTTPServer(repo *Repo) *HTTPServer {
	return &HTTPServer{repo: repo}
}

func (s *HTTPServer) Register(rg *gin.RouterGroup) {
	rg.GET("/catalog/models", s.listModels)
	rg.GET("/catalog/models/:id", s.getModel)
	rg.GET("/catalog/models/:id/configurations", s.listConfigurations)
	rg.GET("/catalog/options", s.listOptions)
}

func (s *HTTPServer) listModels(c *gin.Context) {
	models, err := s.repo.ListModels(c.Request.Context(), c.Query("brand_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": models})
}

func (s *HTTPServer) getModel(c *gin.Context) {
	m, err := s.repo.ModelByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "model not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *HTTPServer) listConfigurations(c *gin.Context) {
	cfgs, err := s.repo.ConfigurationsByModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"configurations": cfgs})
}

func (s *HTTPServer) listOptions(c *gin.Context) {
	opts, err := s.repo.ListOptions(c.Request.Context(), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": opts})
}
