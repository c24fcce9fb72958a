package service

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/micropay-labs/api-gateway/internal/gateway/biz"
	"github.com/micropay-labs/api-gateway/internal/gateway/types"
	"github.com/micropay-labs/api-gateway/internal/pkg/logger"
	"github.com/micropay-labs/api-gateway/internal/pkg/response"
	"go.uber.org/zap"
)

// GatewayService exposes the proxied capabilities over HTTP.
type GatewayService struct {
	uc     *biz.GatewayUseCase
	meta   Meta
	logger *logger.Logger
}

// NewGatewayService creates the HTTP service.
func NewGatewayService(uc *biz.GatewayUseCase, meta Meta, logger *logger.Logger) *GatewayService {
	return &GatewayService{
		uc:     uc,
		meta:   meta,
		logger: logger,
	}
}

// RegisterRoutes mounts the three API handlers on the given group.
func (s *GatewayService) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/search", s.Search)
	api.GET("/fetch", s.Fetch)
	api.GET("/analyze-github", s.Analyze)
}

// Index returns service metadata and the endpoint price table.
func (s *GatewayService) Index(c *gin.Context) {
	response.Success(c, s.meta)
}

// Search handles GET /api/search?q=...&count=...
func (s *GatewayService) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, types.ErrMissingQuery.Error())
		return
	}

	count, err := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(biz.DefaultSearchCount)))
	if err != nil {
		count = biz.DefaultSearchCount
	}

	result, err := s.uc.Search(c.Request.Context(), query, count)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, result)
}

// Fetch handles GET /api/fetch?url=...
func (s *GatewayService) Fetch(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		response.BadRequest(c, types.ErrMissingURL.Error())
		return
	}

	result, err := s.uc.Fetch(c.Request.Context(), target)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, result)
}

// Analyze handles GET /api/analyze-github?repo=owner/name
func (s *GatewayService) Analyze(c *gin.Context) {
	repo := c.Query("repo")
	if repo == "" {
		response.BadRequest(c, types.ErrMissingRepo.Error())
		return
	}

	result, err := s.uc.Analyze(c.Request.Context(), repo)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, result)
}

// handleError is the per-handler failure boundary: validation failures
// become 400, everything else 500. No retries.
func (s *GatewayService) handleError(c *gin.Context, err error) {
	if types.IsValidation(err) {
		response.BadRequest(c, err.Error())
		return
	}

	s.logger.Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	response.InternalError(c, err.Error())
}
