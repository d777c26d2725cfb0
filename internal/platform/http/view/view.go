// Package view は埋め込みHTMLテンプレートと描画ヘルパーを提供します。
package view

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/guilletomac/CS50-finance/internal/shared/identity"
	"github.com/guilletomac/CS50-finance/internal/shared/money"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap はテンプレートで使える関数です。
var FuncMap = template.FuncMap{
	"usd": money.USD,
}

// Templates は全ページのテンプレートを解析して返します。テンプレート名はファイル名です。
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(FuncMap).ParseFS(templateFS, "templates/*.html"))
}

// Render はログイン状態をdataに加えてテンプレートを描画します。
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	_, loggedIn := identity.UserID(c.Request.Context())
	data["LoggedIn"] = loggedIn
	if _, ok := data["Title"]; !ok {
		data["Title"] = name
	}
	c.HTML(status, name, data)
}
