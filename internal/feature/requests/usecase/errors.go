package usecase

import "errors"

var (
	// ErrRequestNotFound は指定されたリクエストが存在しない場合に返されます。
	ErrRequestNotFound = errors.New("request not found")
	// ErrUnsafeImage は添付画像が不適切と判定された場合に返されます。
	ErrUnsafeImage = errors.New("attachment rejected by moderation")
)
