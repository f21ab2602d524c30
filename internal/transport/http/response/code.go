package response

// 业务码直接沿用 HTTP 语义，HTTP 状态码与 body code 一致
const (
	CodeOK           = 0
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409 // 审批并发 / 非 pending 状态迁移
	CodeServerError  = 500
)

// CodeMsgMap 集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:           "OK",
	CodeBadRequest:   "Bad Request",
	CodeUnauthorized: "Unauthorized",
	CodeForbidden:    "Forbidden",
	CodeNotFound:     "Not Found",
	CodeConflict:     "Conflict",
	CodeServerError:  "Internal Server Error",
}

// HTTPStatus body code 到 HTTP 状态码：code 为 0 时 200，其余原样
func HTTPStatus(code int) int {
	if code == CodeOK {
		return 200
	}
	if code >= 400 && code < 600 {
		return code
	}
	return 500
}
