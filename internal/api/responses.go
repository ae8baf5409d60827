// Package api はHTTPトランスポート層で共有されるレスポンス型を定義します。
// 全エンドポイントは success フラグ付きの統一エンベロープで応答します。
package api

// Meta はリスト系レスポンスのページネーション情報です。
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Response は成功時の統一エンベロープです。
type Response struct {
	Success bool  `json:"success"`
	Data    any   `json:"data"`
	Meta    *Meta `json:"meta,omitempty"`
}

// OK はデータのみの成功レスポンスを生成します。
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKWithMeta はページネーション情報付きの成功レスポンスを生成します。
func OKWithMeta(data any, meta Meta) Response {
	return Response{Success: true, Data: data, Meta: &meta}
}

// ErrorResponse は失敗時の統一エンベロープです。
// 内部エラーの詳細はクライアントに公開せず、messageは汎用文字列に留めます。
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error はエラーレスポンスを生成します。
func Error(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// MessageResponse は補足メッセージ付きの成功レスポンスです（ログアウト等）。
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Message は成功メッセージレスポンスを生成します。
func Message(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}
