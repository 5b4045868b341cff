package dto

// UpdateProfileReq はPATCH /users/:idエンドポイントのリクエストボディを表します。
// パスワード欄が空の場合、パスワードは変更されません。
type UpdateProfileReq struct {
	Name                 string `json:"name"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}
