package protocol

// JoinSessionPayload 加入会话请求负载
type JoinSessionPayload struct {
	SessionID string `json:"sessionId"`
}

// CodeChangePayload 代码变更请求负载
type CodeChangePayload struct {
	SessionID string `json:"sessionId"`
	Code      string `json:"code"`
}

// LanguageChangePayload 语言切换请求负载
type LanguageChangePayload struct {
	SessionID string `json:"sessionId"`
	Language  string `json:"language"`
}

// RunCodePayload 执行代码请求负载
type RunCodePayload struct {
	SessionID string `json:"sessionId"`
}

// CodeSyncPayload 会话快照，仅单播给刚加入的连接
type CodeSyncPayload struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// CodeUpdatePayload 代码更新广播负载
type CodeUpdatePayload struct {
	Code string `json:"code"`
}

// LanguageUpdatePayload 语言更新广播负载
type LanguageUpdatePayload struct {
	Language string `json:"language"`
}

// UserCountPayload user-joined / user-left 共用的成员数负载
type UserCountPayload struct {
	UserCount int `json:"userCount"`
}

// CodeExecutionPayload 执行请求通知负载
type CodeExecutionPayload struct {
	Message string `json:"message"`
}

// ErrorPayload 错误负载，仅单播给出错请求的连接
type ErrorPayload struct {
	Message string `json:"message"`
}
