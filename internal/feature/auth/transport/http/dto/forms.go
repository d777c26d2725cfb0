// Package dto はauthフィーチャーのフォーム入力を定義します。
package dto

// LoginForm は POST /login のフォームです。必須チェックはユースケースが行います。
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// RegisterForm は POST /register のフォームです。
type RegisterForm struct {
	Username     string `form:"username"`
	Password     string `form:"password"`
	Confirmation string `form:"confirmation"`
}
