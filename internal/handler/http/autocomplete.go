package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/service"
)

// AutocompleteHandler 封装补全建议的 HTTP 处理逻辑
type AutocompleteHandler struct {
	autocompleteService *service.AutocompleteService
}

// NewAutocompleteHandler 创建 AutocompleteHandler 实例
func NewAutocompleteHandler(autocompleteService *service.AutocompleteService) *AutocompleteHandler {
	return &AutocompleteHandler{autocompleteService: autocompleteService}
}

// AutocompleteRequest 定义补全请求的结构体
// code 允许为空字符串，所以不能加 required 校验
type AutocompleteRequest struct {
	Code           string `json:"code"`
	CursorPosition int    `json:"cursorPosition"`
	Language       string `json:"language" binding:"required"`
}

// AutocompleteResponse 定义补全响应的结构体
type AutocompleteResponse struct {
	Suggestion     string   `json:"suggestion"`
	AllSuggestions []string `json:"allSuggestions"`
}

// Suggest 处理补全建议请求
func (h *AutocompleteHandler) Suggest(c *gin.Context) {
	// 1. 绑定请求体
	var req AutocompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Suggest: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: language is required"})
		return
	}

	// 2. 调用 Service 层计算建议，纯计算不会出错
	suggestion, all := h.autocompleteService.Suggest(req.Code, req.CursorPosition, req.Language)

	// 3. 成功响应
	SuccessResponse(c, http.StatusOK, AutocompleteResponse{
		Suggestion:     suggestion,
		AllSuggestions: all,
	})
}
