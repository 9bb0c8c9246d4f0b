package public

import "github.com/daishou-next/internal/provider"

// Handler 公开与登录态通用接口处理器
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
