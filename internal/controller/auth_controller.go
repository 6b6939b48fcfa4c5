package controller

import (
	"errors"

	"roadmap_backend/internal/service"
	"roadmap_backend/internal/util"
	"roadmap_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	CodeStore  service.CodeStore
	ExposeCode bool // 是否在响应中回显验证码（演示模式）
}

func NewAuthController(codeStore service.CodeStore, exposeCode bool) *AuthController {
	return &AuthController{
		CodeStore:  codeStore,
		ExposeCode: exposeCode,
	}
}

// OTPRequest 申请验证码
// swagger:model OTPRequest
type OTPRequest struct {
	Contact string `json:"contact" binding:"required" example:"ada@example.com"`
}

// OTPVerifyRequest 校验验证码
// swagger:model OTPVerifyRequest
type OTPVerifyRequest struct {
	Contact string `json:"contact" binding:"required" example:"ada@example.com"`
	Code    string `json:"code" binding:"required" example:"1234"`
}

// RequestCode godoc
// @Summary 申请一次性验证码
// @Description 为邮箱或手机号签发登录验证码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body OTPRequest true "联系方式"
// @Success 200 {object} util.Response{data=object} "已发送"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/auth/otp [post]
func (c *AuthController) RequestCode(ctx *gin.Context) {
	var req OTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		monitoring.OTPRequests.WithLabelValues("issue", "invalid").Inc()
		util.BadRequest(ctx, err.Error())
		return
	}

	code, err := c.CodeStore.Issue(ctx.Request.Context(), req.Contact)
	if err != nil {
		if errors.Is(err, util.ErrContactRequired) {
			monitoring.OTPRequests.WithLabelValues("issue", "invalid").Inc()
			util.BadRequest(ctx, err.Error())
			return
		}
		monitoring.OTPRequests.WithLabelValues("issue", "error").Inc()
		util.LogInternalError(ctx, err)
		return
	}

	monitoring.OTPRequests.WithLabelValues("issue", "ok").Inc()
	data := gin.H{"sent": true}
	if c.ExposeCode {
		data["code"] = code
	}
	util.Success(ctx, data)
}

// VerifyCode godoc
// @Summary 校验一次性验证码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body OTPVerifyRequest true "联系方式与验证码"
// @Success 200 {object} util.Response{data=object} "验证通过"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "验证码错误或已过期"
// @Router /api/auth/otp/verify [post]
func (c *AuthController) VerifyCode(ctx *gin.Context) {
	var req OTPVerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		monitoring.OTPRequests.WithLabelValues("verify", "invalid").Inc()
		util.BadRequest(ctx, err.Error())
		return
	}

	ok, err := c.CodeStore.Verify(ctx.Request.Context(), req.Contact, req.Code)
	if err != nil {
		if errors.Is(err, util.ErrContactRequired) {
			monitoring.OTPRequests.WithLabelValues("verify", "invalid").Inc()
			util.BadRequest(ctx, err.Error())
			return
		}
		monitoring.OTPRequests.WithLabelValues("verify", "error").Inc()
		util.LogInternalError(ctx, err)
		return
	}

	if !ok {
		monitoring.OTPRequests.WithLabelValues("verify", "rejected").Inc()
		util.Unauthorized(ctx, util.ErrInvalidCode.Error())
		return
	}

	monitoring.OTPRequests.WithLabelValues("verify", "ok").Inc()
	util.Success(ctx, gin.H{"verified": true})
}
