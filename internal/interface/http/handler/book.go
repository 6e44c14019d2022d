package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooksUseCase *appbook.ListBooksUseCase
	myBooksUseCase   *appbook.MyBooksUseCase
	saveBookUseCase  *appbook.SaveBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	myBooksUseCase *appbook.MyBooksUseCase,
	saveBookUseCase *appbook.SaveBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase: listBooksUseCase,
		myBooksUseCase:   myBooksUseCase,
		saveBookUseCase:  saveBookUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  返回全部图书（按书名排序），包含是否借出和应还日期
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]appbook.BookItem}
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	items, err := h.listBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// MyBooks 我的借阅
// @Summary      我的借阅
// @Description  返回当前用户借出未还的图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.MyBooksRequest false "用户标识（可省略）"
// @Success      200 {object} response.Response{data=[]appbook.BookItem}
// @Failure      401 {object} response.Response "未登录或Token无效"
// @Failure      403 {object} response.Response "user_id与Token不一致"
// @Router       /my-books [post]
func (h *BookHandler) MyBooks(c *gin.Context) {
	// 请求体可以为空
	var req dto.MyBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	userID, err := requestUserID(c, req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.myBooksUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if len(items) == 0 {
		response.SuccessWithMessage(c, "您还没有借阅任何图书", items)
		return
	}
	response.Success(c, items)
}

// SaveBook 新增或更新图书
// @Summary      新增或更新图书
// @Description  ISBN已存在时更新书名和作者，否则新建
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SaveBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookItem} "已更新"
// @Success      201 {object} response.Response{data=appbook.BookItem} "已创建"
// @Failure      401 {object} response.Response "未登录"
// @Failure      422 {object} response.Response "参数错误"
// @Router       /book [put]
func (h *BookHandler) SaveBook(c *gin.Context) {
	var req dto.SaveBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.saveBookUseCase.Execute(c.Request.Context(), appbook.SaveBookRequest{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Created {
		response.Created(c, "图书已添加", result.Book)
		return
	}
	response.SuccessWithMessage(c, "图书信息已更新", result.Book)
}

// requestUserID 请求体里的user_id必须是Token对应的用户，为空时使用Token中的用户
func requestUserID(c *gin.Context, bodyUserID string) (string, error) {
	userID := middleware.MustGetUserID(c)
	if bodyUserID != "" && bodyUserID != userID {
		return "", apperrors.ErrForbidden
	}
	return userID, nil
}
