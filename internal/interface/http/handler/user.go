package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// UserHandler 用户HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 账号相关的规则都在身份服务里，这里不做判断
type UserHandler struct {
	signUpUseCase      *appuser.SignUpUseCase
	loginUseCase       *appuser.LoginUseCase
	logoutUseCase      *appuser.LogoutUseCase
	currentUserUseCase *appuser.CurrentUserUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	signUpUseCase *appuser.SignUpUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	currentUserUseCase *appuser.CurrentUserUseCase,
) *UserHandler {
	return &UserHandler{
		signUpUseCase:      signUpUseCase,
		loginUseCase:       loginUseCase,
		logoutUseCase:      logoutUseCase,
		currentUserUseCase: currentUserUseCase,
	}
}

// SignUp 注册
// @Summary      注册
// @Description  创建账号（密码8-20位，包含字母和数字）
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.SignUpRequest true "注册信息"
// @Success      201 {object} response.Response{data=appuser.SignUpResponse} "注册成功"
// @Failure      400 {object} response.Response "邮箱已注册、邮箱格式错误或密码强度不足"
// @Failure      500 {object} response.Response "系统错误"
// @Router       /signup [post]
func (h *UserHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.signUpUseCase.Execute(c.Request.Context(), appuser.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "注册成功", result)
}

// Login 登录
// @Summary      登录
// @Description  验证邮箱密码，data为Bearer Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=string} "登录成功"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Failure      422 {object} response.Response "参数错误"
// @Router       /auth [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "登录成功", result.Token)
}

// Logout 登出
// @Summary      登出
// @Description  使当前Token失效，Token已失效时同样返回成功
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未携带Token"
// @Router       /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.logoutUseCase.Execute(c.Request.Context(), middleware.GetToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "已退出登录", nil)
}

// CurrentUser 当前用户
// @Summary      当前用户
// @Description  返回Token对应的用户标识
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.UserInfo}
// @Failure      401 {object} response.Response "Token无效或已过期"
// @Router       /user [get]
func (h *UserHandler) CurrentUser(c *gin.Context) {
	info, err := h.currentUserUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}
