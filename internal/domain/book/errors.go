package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "ISBN号已存在")

	// ErrInvalidISBN ISBN为空或只有分隔符
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidISBN, "ISBN不能为空")

	// ErrTitleRequired 书名为空
	ErrTitleRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrAuthorRequired 作者为空
	ErrAuthorRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "作者不能为空")

	// ErrAlreadyCheckedOut 图书已被借出
	ErrAlreadyCheckedOut = apperrors.ErrAlreadyCheckedOut
)
