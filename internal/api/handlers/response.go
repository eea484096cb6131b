package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
// 成功时携带 data，失败时携带 err，code 与 HTTP 状态码一致
type Response struct {
	Code string      `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
	Err  string      `json:"err,omitempty"`
}

// Success 返回 200 响应
func Success(c *gin.Context, msg string, data interface{}) {
	c.JSON(200, Response{Code: "200", Msg: msg, Data: data})
}

// Fail 返回错误响应
func Fail(c *gin.Context, status int, msg string, detail string) {
	c.JSON(status, Response{Code: strconv.Itoa(status), Msg: msg, Err: detail})
}

// AbortWithFail 返回错误响应并中止后续处理
func AbortWithFail(c *gin.Context, status int, msg string, detail string) {
	Fail(c, status, msg, detail)
	c.Abort()
}
