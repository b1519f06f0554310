package order

import (
	"errors"
	"net/http"
	"time"

	"github.com/AutoDealHub/AutoDealHub/internal/common/auth"
	"github.com/AutoDealHub/AutoDealHub/internal/common/logger"
	"github.com/AutoDealHub/AutoDealHub/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

// HTTPServer 订单引擎的 HTTP 薄封装：只做参数绑定与错误码映射，业务都在 Service。
type HTTPServer struct {
	svc      *Service
	log      logger.Logger
	reportCB *middleware.CircuitBreaker
}

func NewHTTPServer(svc *Service, log logger.Logger) *HTTPServer {
	return &HTTPServer{
		svc:      svc,
		log:      log,
		reportCB: middleware.NewCircuitBreaker("sales-report", 5, 30*time.Second),
	}
}

// Register 挂载订单路由。rateLimit 作用于下单，adminGuard 作用于删除与报表。
func (s *HTTPServer) Register(rg *gin.RouterGroup, rateLimit, adminGuard gin.HandlerFunc) {
	rg.POST("/orders", rateLimit, s.createOrder)
	rg.GET("/orders", s.listOrders)
	rg.GET("/orders/:id", s.getOrder)
	rg.GET("/orders/:id/history", s.history)
	rg.PUT("/orders/:id/status", s.updateStatus)
	rg.DELETE("/orders/:id", adminGuard, s.deleteOrder)
	rg.GET("/reports/sales", adminGuard, s.salesReport)
}

type createOrderRequest struct {
	VehicleID       string   `json:"vehicle_id"`
	ModelID         string   `json:"model_id"`
	Color           string   `json:"color"`
	ConfigurationID string   `json:"configuration_id" binding:"required"`
	OptionIDs       []string `json:"option_ids"`
	// 鉴权关闭时（本地联调）允许 body 里直接给 user_id
	UserID string `json:"user_id"`
}

func (s *HTTPServer) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := auth.SubjectFromContext(c)
	if userID == "" {
		userID = req.UserID
	}

	o, err := s.svc.CreateOrder(c.Request.Context(), CreateOrderInput{
		UserID:          userID,
		VehicleID:       req.VehicleID,
		ModelID:         req.ModelID,
		Color:           req.Color,
		ConfigurationID: req.ConfigurationID,
		OptionIDs:       req.OptionIDs,
	})
	middleware.RecordOrderOperation("create", err == nil)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *HTTPServer) getOrder(c *gin.Context) {
	o, err := s.svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *HTTPServer) history(c *gin.Context) {
	rows, err := s.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": rows})
}

func (s *HTTPServer) listOrders(c *gin.Context) {
	f := ListOrdersFilter{
		UserID: c.Query("user_id"),
		Status: Status(c.Query("status")),
	}
	page := intQuery(c, "page", 1)
	size := intQuery(c, "page_size", 20)
	if size > 200 {
		size = 20
	}
	f.Offset = (page - 1) * size
	f.Limit = size

	orders, total, err := s.svc.ListOrders(c.Request.Context(), f)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

func (s *HTTPServer) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := s.svc.UpdateStatus(c.Request.Context(), c.Param("id"),
		Status(req.Status), req.Note, auth.SubjectFromContext(c))
	middleware.RecordOrderOperation("update_status", err == nil)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *HTTPServer) deleteOrder(c *gin.Context) {
	err := s.svc.DeleteOrder(c.Request.Context(), c.Param("id"))
	middleware.RecordOrderOperation("delete", err == nil)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *HTTPServer) salesReport(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, want YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, want YYYY-MM-DD"})
		return
	}
	// 含端点：to 这天整天都算在区间内
	to = to.Add(24*time.Hour - time.Nanosecond)
	brandID := c.Query("brand_id")

	var rows []SalesRow
	cbErr := s.reportCB.Call(c.Request.Context(), func() error {
		var e error
		rows, e = s.svc.SalesReport(c.Request.Context(), from, to, brandID)
		return e
	})
	middleware.RecordOrderOperation("report", cbErr == nil)
	if cbErr != nil {
		if errors.Is(cbErr, middleware.ErrCircuitOpen) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reporting temporarily unavailable"})
			return
		}
		s.writeError(c, cbErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// writeError 把引擎错误分类映射到 HTTP 状态码。
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrVehicleUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrModelNotFound),
		errors.Is(err, ErrConfigurationNotFound),
		errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		if s.log != nil {
			s.log.Errorf("order operation failed: %v", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n := 0
	for _, ch := range v {
		if ch < '0' || ch > '9' {
			return def
		}
		n = n*10 + int(ch-'0')
	}
	if n <= 0 {
		return def
	}
	return n
}
