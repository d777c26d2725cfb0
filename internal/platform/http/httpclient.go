// Package http は外部API呼び出し用のHTTPクライアント設定を提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は株価プロバイダーなど外部API向けに調整したHTTPクライアントを返します。
// http.DefaultClientはタイムアウトを持たないため、外部呼び出しには必ずこれを使います。
// timeoutはリクエスト全体（接続からボディ読み込みまで）の上限です。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
