package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HTTPServer 库存管理接口（运营侧，非下单路径）。
type HTTPServer struct {
	repo *Repo
}

func NewHTTPServer(repo *Repo) *HTTPServer {
	return &HTTPServer{repo: repo}
}

// Register 挂载库存路由，adminGuard 作用于改状态的管理操作。
func (s *HTTPServer) Register(rg *gin.RouterGroup, adminGuard gin.HandlerFunc) {
	rg.GET("/vehicles", s.listVehicles)
	rg.GET("/vehicles/:id", s.getVehicle)
	rg.POST("/vehicles/:id/sold", adminGuard, s.markSold)
}

func (s *HTTPServer) listVehicles(c *gin.Context) {
	status := Status(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 20
	}

	vehicles, total, err := s.repo.List(c.Request.Context(), c.Query("model_id"), status, (page-1)*size, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "total": total})
}

func (s *HTTPServer) getVehicle(c *gin.Context) {
	v, err := s.repo.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, v)
}

// markSold 交付完成后的管理操作：reserved -> sold。
func (s *HTTPServer) markSold(c *gin.Context) {
	if err := s.repo.MarkSold(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sold": true})
}
