package checkout

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	// ErrAlreadyCheckedOut 图书已被借出
	ErrAlreadyCheckedOut = apperrors.ErrAlreadyCheckedOut

	// ErrNotCheckedOutByUser 没有该用户对这本书的未归还记录
	// 书未借出和被别人借走都返回这个错误,不透露借阅人
	ErrNotCheckedOutByUser = apperrors.ErrNotCheckedOutByUser

	// ErrInvalidRequest 图书ID或用户ID为空
	ErrInvalidRequest = apperrors.New(apperrors.ErrCodeInvalidParams, "图书ID和用户ID不能为空")
)
