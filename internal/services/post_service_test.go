package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"alumni/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Ada", "ada@example.com", "", "")

	post, err := f.posts.Create(ctx, u, "")
	assert.NoError(t, err)
	assert.Nil(t, post)

	post, err = f.posts.Create(ctx, u, "   ")
	assert.NoError(t, err)
	assert.Nil(t, post)
	assert.Equal(t, int64(0), f.count(t, &models.Post{}))

	post, err = f.posts.Create(ctx, u, "hello")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, u.ID, post.UserID)
	assert.Equal(t, int64(1), f.count(t, &models.Post{}))
}

func TestFeedOrderAndLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Ada", "ada@example.com", "", "")

	for i := 0; i < FeedLimit+5; i++ {
		_, err := f.posts.Create(ctx, u, fmt.Sprintf("post %d", i))
		require.NoError(t, err)
	}

	feed, err := f.posts.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, FeedLimit)

	assert.Equal(t, fmt.Sprintf("post %d", FeedLimit+4), feed[0].Content)
	assert.Equal(t, "Ada", feed[0].User.Name)
	for i := 1; i < len(feed); i++ {
		prev, cur := feed[i-1], feed[i]
		assert.False(t, cur.CreatedAt.After(prev.CreatedAt), "feed must be newest first")
		assert.Greater(t, prev.ID, cur.ID)
	}
}

func TestFeedCacheInvalidatedOnCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Ada", "ada@example.com", "", "")

	_, err := f.posts.Create(ctx, u, "first")
	require.NoError(t, err)
	feed, err := f.posts.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)

	// a write behind the service's back is not visible while cached
	require.NoError(t, f.db.Create(&models.Post{UserID: u.ID, Content: "sneaky"}).Error)
	feed, err = f.posts.Feed(ctx)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	_, err = f.posts.Create(ctx, u, "second")
	require.NoError(t, err)
	feed, err = f.posts.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, "second", feed[0].Content)
}

func TestFeedIgnoresResultOverlappingAWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Ada", "ada@example.com", "", "")

	_, err := f.posts.Create(ctx, u, "first")
	require.NoError(t, err)

	// a post is created after Feed has read the table but before it caches the result
	fired := false
	require.NoError(t, f.db.Callback().Query().After("gorm:query").Register("alumni:create_during_feed", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "posts" {
			return
		}
		fired = true
		_, err := f.posts.Create(context.Background(), u, "hello")
		require.NoError(t, err)
	}))

	feed, err := f.posts.Feed(ctx)
	require.NoError(t, err)
	require.True(t, fired)
	assert.Len(t, feed, 1)

	feed, err = f.posts.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "hello", feed[0].Content)
}

func TestCreateKeepsContentAsWritten(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Ada", "ada@example.com", "", "")

	post, err := f.posts.Create(ctx, u, "    indented code\n")
	require.NoError(t, err)
	require.NotNil(t, post)

	var stored models.Post
	require.NoError(t, f.db.First(&stored, post.ID).Error)
	assert.Equal(t, "    indented code\n", stored.Content)

	c, err := f.posts.Comment(ctx, u, post.ID, "  spaced  ")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "  spaced  ", c.CommentText)
}

func TestFeedWithoutCache(t *testing.T) {
	f := newFixture(t)
	posts := NewPostService(f.db, nil, 0)
	ctx := context.Background()
	u := f.register(t, "Ada", "ada@example.com", "", "")

	_, err := posts.Create(ctx, u, "one")
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&models.Post{UserID: u.ID, Content: "two"}).Error)

	feed, err := posts.Feed(ctx)
	require.NoError(t, err)
	assert.Len(t, feed, 2)
}

func TestLikeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Ada", "ada@example.com", "", "")
	post, err := f.posts.Create(ctx, u, "hello")
	require.NoError(t, err)

	created, err := f.posts.Like(ctx, u, post.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.posts.Like(ctx, u, post.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(1), f.count(t, &models.Like{}))

	_, err = f.posts.Like(ctx, u, post.ID+100)
	assert.ErrorIs(t, err, ErrPostNotFound)

	detail, err := f.posts.Detail(ctx, post.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, detail.Liked)
	assert.Equal(t, 1, detail.Post.LikeCount)

	detail, err = f.posts.Detail(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.False(t, detail.Liked)
}

func TestComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Ada", "ada@example.com", "", "")
	reader := f.register(t, "Bob", "bob@example.com", "", "")
	post, err := f.posts.Create(ctx, author, "hello")
	require.NoError(t, err)

	c, err := f.posts.Comment(ctx, reader, post.ID, "  ")
	assert.NoError(t, err)
	assert.Nil(t, c)

	_, err = f.posts.Comment(ctx, reader, post.ID, "first!")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = f.posts.Comment(ctx, author, post.ID, "thanks")
	require.NoError(t, err)

	_, err = f.posts.Comment(ctx, reader, post.ID+100, "lost")
	assert.ErrorIs(t, err, ErrPostNotFound)

	detail, err := f.posts.Detail(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "first!", detail.Comments[0].CommentText)
	assert.Equal(t, "Bob", detail.Comments[0].User.Name)
	assert.Equal(t, 2, detail.Post.CommentCount)

	feed, err := f.posts.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, 2, feed[0].CommentCount)
}

func TestByUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "Ada", "ada@example.com", "", "")
	b := f.register(t, "Bob", "bob@example.com", "", "")

	_, err := f.posts.Create(ctx, a, "from ada")
	require.NoError(t, err)
	_, err = f.posts.Create(ctx, b, "from bob")
	require.NoError(t, err)

	posts, err := f.posts.ByUser(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "from ada", posts[0].Content)
}

func TestDetailNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.posts.Detail(context.Background(), 42, 0)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
