package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"roadmap_backend/internal/service"
	"roadmap_backend/internal/util"
	"roadmap_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoadmapGenerator is the part of RoadmapService the controller needs.
type RoadmapGenerator interface {
	Generate(ctx context.Context, topic string) (json.RawMessage, error)
}

type RoadmapController struct {
	RoadmapService RoadmapGenerator
}

func NewRoadmapController(roadmapService RoadmapGenerator) *RoadmapController {
	return &RoadmapController{RoadmapService: roadmapService}
}

// SearchRequest is the inbound body of POST /api/search
// swagger:model SearchRequest
type SearchRequest struct {
	Topic string `json:"topic" example:"kubernetes"`
}

// searchBody accepts any JSON value for topic; see topicText.
type searchBody struct {
	Topic interface{} `json:"topic"`
}

// Search godoc
// @Summary 生成学习路线
// @Description 根据主题调用生成式模型，原样返回模型产出的路线 JSON
// @Tags 路线
// @Accept  json
// @Produce  json
// @Param   body body SearchRequest true "学习主题"
// @Success 200 {object} model.RoadmapDocument "模型返回的路线"
// @Failure 400 {object} util.ErrorBody "topic required"
// @Failure 500 {object} util.FormatErrorBody "配置缺失或模型输出不是合法 JSON"
// @Failure 502 {object} util.ErrorBody "上游错误"
// @Router /api/search [post]
func (c *RoadmapController) Search(ctx *gin.Context) {
	var req searchBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		// 非对象的合法 JSON（如 [] 或 42）没有 topic 字段
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			c.writeError(ctx, fmt.Errorf("decode search body: %w", err))
			return
		}
	}

	doc, err := c.RoadmapService.Generate(ctx.Request.Context(), topicText(req.Topic))
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	util.RawJSON(ctx, http.StatusOK, doc)
}

func (c *RoadmapController) writeError(ctx *gin.Context, err error) {
	requestID := zap.String("request_id", util.RequestIDFromContext(ctx))

	var (
		upstreamErr *service.UpstreamError
		formatErr   *service.FormatError
		schemaErr   *service.SchemaError
	)

	switch {
	case errors.Is(err, util.ErrTopicRequired):
		util.AbortJSON(ctx, http.StatusBadRequest, util.ErrorBody{Error: err.Error()})

	case errors.Is(err, util.ErrAPIKeyMissing):
		logger.Log.Error("Roadmap request rejected", zap.Error(err), requestID)
		util.AbortJSON(ctx, http.StatusInternalServerError, util.ErrorBody{Error: err.Error()})

	case errors.As(err, &upstreamErr):
		logger.Log.Error("Gemini API error",
			zap.Int("status", upstreamErr.StatusCode),
			zap.String("body", upstreamErr.Body),
			requestID,
		)
		util.AbortJSON(ctx, upstreamStatus(upstreamErr.StatusCode), util.ErrorBody{Error: upstreamErr.Error()})

	case errors.As(err, &formatErr):
		logger.Log.Error("JSON parse error",
			zap.Error(formatErr.Err),
			zap.String("raw", formatErr.Raw),
			requestID,
		)
		util.AbortJSON(ctx, http.StatusInternalServerError, util.FormatErrorBody{Error: formatErr.Error(), Raw: formatErr.Raw})

	case errors.As(err, &schemaErr):
		logger.Log.Error("Roadmap schema error",
			zap.Strings("problems", schemaErr.Problems),
			zap.String("raw", schemaErr.Raw),
			requestID,
		)
		util.AbortJSON(ctx, http.StatusInternalServerError, util.FormatErrorBody{Error: schemaErr.Error(), Raw: schemaErr.Raw})

	default:
		logger.Log.Error("Server error", zap.Error(err), requestID)
		util.AbortJSON(ctx, http.StatusInternalServerError, util.ErrorBody{Error: "Internal server error"})
	}
}

// topicText turns a decoded topic into prompt text. Strings pass through;
// true and non-zero numbers use their literal form. false, 0, null, objects
// and arrays yield "" and are rejected as a missing topic.
func topicText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
	case float64:
		if t != 0 {
			return strconv.FormatFloat(t, 'g', -1, 64)
		}
	}
	return ""
}

// 上游状态码不合法时回退为 502
func upstreamStatus(code int) int {
	if code < 100 || code > 599 {
		return http.StatusBadGateway
	}
	return code
}
