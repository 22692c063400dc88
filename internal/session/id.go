package session

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// 会话 ID 固定为 9 位小写字母或数字
const idLength = 9

const idCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

var idPattern = regexp.MustCompile(`^[a-z0-9]{9}$`)

// ErrInvalidSessionID 会话 ID 格式非法
var ErrInvalidSessionID = errors.New("session: invalid session id")

// GenerateID 生成一个 9 位随机会话 ID
func GenerateID() string {
	var b strings.Builder
	b.Grow(idLength)
	for i := 0; i < idLength; i++ {
		b.WriteByte(idCharset[rand.Intn(len(idCharset))])
	}
	return b.String()
}

// ValidateID 校验会话 ID 格式，非法时返回 ErrInvalidSessionID
func ValidateID(id string) error {
	err := validation.Validate(id,
		validation.Required,
		validation.Length(idLength, idLength),
		validation.Match(idPattern),
	)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}

// ShareLink 拼接会话分享链接。ID 非法时同步报错，绝不吞掉。
func ShareLink(baseURL, id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/session/%s", strings.TrimRight(baseURL, "/"), id), nil
}
