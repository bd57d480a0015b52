package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alumni/internal/models"
	"alumni/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedLimit caps the feed and the per-user post list.
const FeedLimit = 50

const feedCacheKey = "feed:recent"

// PostService covers the feed, posting, likes and comments.
type PostService struct {
	db       *gorm.DB
	cache    *utils.Cache
	cacheTTL time.Duration
}

func NewPostService(db *gorm.DB, cache *utils.Cache, cacheTTL time.Duration) *PostService {
	return &PostService{db: db, cache: cache, cacheTTL: cacheTTL}
}

// PostDetail is a post with its comments and the viewer's like state.
type PostDetail struct {
	Post     models.Post
	Comments []models.Comment
	Liked    bool
}

// Feed returns the most recent posts, newest first, with authors loaded.
// The returned slice may be shared with other callers and must not be modified.
func (s *PostService) Feed(ctx context.Context) ([]models.Post, error) {
	if cached, ok := s.cache.Get(feedCacheKey).([]models.Post); ok {
		return cached, nil
	}
	version := s.cache.Version(feedCacheKey)

	var posts []models.Post
	if err := s.db.WithContext(ctx).Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(FeedLimit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	if err := s.fillCounts(ctx, posts); err != nil {
		return nil, err
	}

	// a write that landed during the query has already invalidated this result
	s.cache.SetIfVersion(feedCacheKey, posts, s.cacheTTL, version)
	return posts, nil
}

// ByUser returns a user's most recent posts, newest first.
func (s *PostService) ByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(FeedLimit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("load posts of user %d: %w", userID, err)
	}
	if err := s.fillCounts(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Create stores a post owned by author exactly as written. Blank content is
// ignored and yields a nil post with a nil error.
func (s *PostService) Create(ctx context.Context, author *models.User, content string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	post := models.Post{UserID: author.ID, Content: content}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.User = *author

	s.cache.Delete(feedCacheKey)
	return &post, nil
}

// Detail loads a post with its comments, oldest first. viewerID may be zero.
func (s *PostService) Detail(ctx context.Context, postID, viewerID uint) (*PostDetail, error) {
	post, err := s.find(ctx, postID)
	if err != nil {
		return nil, err
	}

	detail := &PostDetail{Post: *post}
	if err := s.db.WithContext(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&detail.Comments).Error; err != nil {
		return nil, fmt.Errorf("load comments of post %d: %w", postID, err)
	}

	posts := []models.Post{detail.Post}
	if err := s.fillCounts(ctx, posts); err != nil {
		return nil, err
	}
	detail.Post = posts[0]

	if viewerID != 0 {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.Like{}).
			Where("user_id = ? AND post_id = ?", viewerID, postID).
			Count(&n).Error; err != nil {
			return nil, fmt.Errorf("check like: %w", err)
		}
		detail.Liked = n > 0
	}
	return detail, nil
}

// Like records that user likes the post. Liking twice is a no-op; the result
// reports whether a new like was stored.
func (s *PostService) Like(ctx context.Context, user *models.User, postID uint) (bool, error) {
	if _, err := s.find(ctx, postID); err != nil {
		return false, err
	}

	like := models.Like{UserID: user.ID, PostID: postID}
	res := s.db.WithContext(ctx).Omit(clause.Associations).
		Where(models.Like{UserID: user.ID, PostID: postID}).
		FirstOrCreate(&like)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("like post %d: %w", postID, res.Error)
	}

	created := res.RowsAffected > 0
	if created {
		s.cache.Delete(feedCacheKey)
	}
	return created, nil
}

// Comment adds a comment to the post. Blank text is ignored and yields a nil
// comment with a nil error.
func (s *PostService) Comment(ctx context.Context, user *models.User, postID uint, text string) (*models.Comment, error) {
	if _, err := s.find(ctx, postID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	comment := models.Comment{UserID: user.ID, PostID: postID, CommentText: text}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("comment on post %d: %w", postID, err)
	}
	comment.User = *user

	s.cache.Delete(feedCacheKey)
	return &comment, nil
}

func (s *PostService) find(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("User").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post %d: %w", postID, err)
	}
	return &post, nil
}

// fillCounts 批量填充帖子的点赞数和评论数
func (s *PostService) fillCounts(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likes, err := s.countBy(ctx, &models.Like{}, postIDs)
	if err != nil {
		return err
	}
	comments, err := s.countBy(ctx, &models.Comment{}, postIDs)
	if err != nil {
		return err
	}

	for i := range posts {
		posts[i].LikeCount = likes[posts[i].ID]
		posts[i].CommentCount = comments[posts[i].ID]
	}
	return nil
}

func (s *PostService) countBy(ctx context.Context, model interface{}, postIDs []uint) (map[uint]int, error) {
	type CountResult struct {
		PostID uint
		Count  int
	}
	var results []CountResult
	if err := s.db.WithContext(ctx).Model(model).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("count by post: %w", err)
	}

	counts := make(map[uint]int, len(results))
	for _, r := range results {
		counts[r.PostID] = r.Count
	}
	return counts, nil
}
