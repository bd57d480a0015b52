package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// robotsTxt keeps crawlers on the public pages.
const robotsTxt = `User-agent: *
Allow: /

# 账号相关页面
Disallow: /login
Disallow: /register
Disallow: /logout
Disallow: /profile

# 运维端点
Disallow: /init_sample
Disallow: /healthz
Disallow: /metrics
`

type SEOHandler struct{}

func NewSEOHandler() *SEOHandler {
	return &SEOHandler{}
}

// RobotsTxt 返回 robots.txt 内容
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, robotsTxt)
}
