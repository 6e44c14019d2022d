package handler

import (
	"github.com/gin-gonic/gin"

	appcheckout "github.com/xiebiao/library/internal/application/checkout"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// CheckoutHandler 借还HTTP处理器
type CheckoutHandler struct {
	checkoutUseCase *appcheckout.CheckoutBookUseCase
	returnUseCase   *appcheckout.ReturnBookUseCase
}

// NewCheckoutHandler 创建借还处理器
func NewCheckoutHandler(
	checkoutUseCase *appcheckout.CheckoutBookUseCase,
	returnUseCase *appcheckout.ReturnBookUseCase,
) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUseCase: checkoutUseCase,
		returnUseCase:   returnUseCase,
	}
}

// Checkout 借书
// @Summary      借书
// @Description  借出一本当前可借的图书，返回应还日期
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "图书ID"
// @Success      200 {object} response.Response{data=appcheckout.CheckoutResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "图书已被借出"
// @Router       /checkout [put]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	userID, err := requestUserID(c, req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.checkoutUseCase.Execute(c.Request.Context(), appcheckout.CheckoutRequest{
		BookID: req.BookID,
		UserID: userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, result.Message, result)
}

// Return 还书
// @Summary      还书
// @Description  归还当前用户借出的图书
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "图书ID"
// @Success      200 {object} response.Response{data=appcheckout.ReturnResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "不是当前用户借出的图书"
// @Router       /return [put]
func (h *CheckoutHandler) Return(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	userID, err := requestUserID(c, req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.returnUseCase.Execute(c.Request.Context(), appcheckout.ReturnRequest{
		BookID: req.BookID,
		UserID: userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, result.Message, result)
}
