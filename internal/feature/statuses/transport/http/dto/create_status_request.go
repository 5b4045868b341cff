package dto

// CreateStatusReq はPOST /statusesエンドポイントのリクエストボディを表します。
// 内容の検証（必須・140文字以内）はユースケース側で行います。
type CreateStatusReq struct {
	Content string `json:"content"`
}
