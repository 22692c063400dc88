package session

import (
	"strings"
)

// DefaultLanguage 新会话未指定语言时的默认值
const DefaultLanguage = "javascript"

// genericTemplate 未识别语言的兜底模板
const genericTemplate = "// Write your code here\n"

var templates = map[string]string{
	"javascript": "// Write your JavaScript code here\n",
	"typescript": "// Write your TypeScript code here\n",
	"python":     "# Write your Python code here\n",
	"java":       "public class Solution {\n  public static void main(String[] args) {\n    // Write your code here\n  }\n}\n",
	"cpp":        "#include <iostream>\n\nint main() {\n  // Write your code here\n  return 0;\n}\n",
	"go":         "package main\n\nimport \"fmt\"\n\nfunc main() {\n  // Write your code here\n}\n",
}

// SupportedLanguage 判断语言是否在支持列表内（大小写不敏感）
func SupportedLanguage(language string) bool {
	_, ok := templates[strings.ToLower(language)]
	return ok
}

// DefaultTemplate 返回语言对应的默认代码模板。
// 未识别的语言返回通用模板而非报错。
func DefaultTemplate(language string) string {
	if t, ok := templates[strings.ToLower(language)]; ok {
		return t
	}
	return genericTemplate
}

// SanitizeCode 去除 NUL 与除 \t \n \r 外的控制字符
func SanitizeCode(code string) string {
	if code == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		default:
			return r
		}
	}, code)
}

// CodeSize 代码缓冲区的字节大小
func CodeSize(code string) int {
	return len(code)
}

// CodeTooLarge 代码是否超过字节上限。
// 仅作为策略钩子提供，协议层默认不做此限制。
func CodeTooLarge(code string, maxSizeBytes int) bool {
	return CodeSize(code) > maxSizeBytes
}

// CountLines 统计代码行数
func CountLines(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(code, "\n") + 1
}
