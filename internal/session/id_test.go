package session

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9]{9}$`)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		assert.True(t, pattern.MatchString(id), "generated id %q has wrong format", id)
		assert.NoError(t, ValidateID(id))
	}
}

func TestValidateID(t *testing.T) {
	cases := []struct {
		name string
		id   string
		ok   bool
	}{
		{"valid", "abc123xyz", true},
		{"valid all digits", "123456789", true},
		{"empty", "", false},
		{"too short", "abc123", false},
		{"too long", "abc123xyz0", false},
		{"uppercase", "ABC123XYZ", false},
		{"special chars", "abc-123xy", false},
		{"whitespace", "abc 123xy", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateID(tc.id)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSessionID)
			}
		})
	}
}

func TestShareLink(t *testing.T) {
	link, err := ShareLink("http://localhost:5173", "abc123xyz")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173/session/abc123xyz", link)

	// 末尾斜杠不会产生双斜杠
	link, err = ShareLink("http://localhost:5173/", "abc123xyz")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173/session/abc123xyz", link)

	// 非法 ID 同步报错
	_, err = ShareLink("http://localhost:5173", "bad id")
	assert.ErrorIs(t, err, ErrInvalidSessionID)
}
