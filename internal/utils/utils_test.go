package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("password")
	require.NoError(t, err)

	assert.NotEqual(t, "password", hash)
	assert.True(t, CheckPasswordHash("password", hash))
	assert.False(t, CheckPasswordHash("Password", hash))
	assert.False(t, CheckPasswordHash("password", "not-a-digest"))
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("**hello** <script>alert(1)</script>"))

	assert.Contains(t, out, "<strong>hello</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestRenderMarkdownLazyImages(t *testing.T) {
	out := string(RenderMarkdown("![cap](https://example.com/a.png)"))

	assert.Contains(t, out, `loading="lazy"`)
	assert.Contains(t, out, `referrerpolicy="no-referrer"`)
	assert.False(t, strings.Contains(out, "<body>"))
}

func TestCacheExpiry(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	assert.True(t, c.SetIfVersion("a", 1, time.Minute, c.Version("a")))
	assert.True(t, c.SetIfVersion("b", 2, time.Nanosecond, c.Version("b")))
	assert.False(t, c.SetIfVersion("zero", 3, 0, c.Version("zero")))
	time.Sleep(time.Millisecond)

	assert.Equal(t, 1, c.Get("a"))
	assert.Nil(t, c.Get("b"))
	assert.Nil(t, c.Get("zero"))

	c.Delete("a")
	assert.Nil(t, c.Get("a"))

	var nilCache *Cache
	assert.False(t, nilCache.SetIfVersion("x", 1, time.Minute, nilCache.Version("x")))
	assert.Nil(t, nilCache.Get("x"))
}

func TestCacheSkipsStaleWrites(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	v := c.Version("feed")
	c.Delete("feed")
	assert.False(t, c.SetIfVersion("feed", "stale", time.Minute, v))
	assert.Nil(t, c.Get("feed"))

	v = c.Version("feed")
	assert.True(t, c.SetIfVersion("feed", "fresh", time.Minute, v))
	assert.Equal(t, "fresh", c.Get("feed"))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, s := range []string{"", "0", "-1", "abc", "1.5"} {
		_, ok := ParseID(s)
		assert.False(t, ok, s)
	}

	assert.Equal(t, "42", FormatID(42))
}

func TestInitialsAndTimeAgo(t *testing.T) {
	assert.Equal(t, "SA", Initials("sample alumni"))
	assert.Equal(t, "A", Initials("ada"))
	assert.Equal(t, "?", Initials("  "))

	assert.Equal(t, "just now", TimeAgo(time.Now()))
	assert.Equal(t, "1 hour ago", TimeAgo(time.Now().Add(-90*time.Minute)))
	assert.Equal(t, "3 days ago", TimeAgo(time.Now().Add(-73*time.Hour)))
}
