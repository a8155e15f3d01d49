package service

import (
	"strings"
	"time"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"
)

// PostService 文章业务服务
type PostService struct {
	repo repository.PostRepository
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// PostInput 创建/更新文章输入
type PostInput struct {
	Slug        string
	Type        string
	Title       string
	Summary     string
	Content     string
	Thumbnail   string
	IsPublished *bool
	PublishedAt *time.Time
}

// List 获取文章列表
func (s *PostService) List(filter repository.PostListFilter) ([]models.Post, int64, error) {
	return s.repo.List(filter)
}

// Get 获取文章
func (s *PostService) Get(id uint) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// GetPublishedBySlug 获取已发布文章，未发布视为不存在
func (s *PostService) GetPublishedBySlug(slug string) (*models.Post, error) {
	post, err := s.repo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if post == nil || !post.IsPublished {
		return nil, ErrNotFound
	}
	return post, nil
}

// Create 创建文章
func (s *PostService) Create(input PostInput) (*models.Post, error) {
	slug := strings.TrimSpace(input.Slug)
	title := strings.TrimSpace(input.Title)
	if slug == "" || title == "" {
		return nil, ErrNotFound
	}

	postType := strings.ToLower(strings.TrimSpace(input.Type))
	if postType == "" {
		postType = constants.PostTypeBlog
	}
	if postType != constants.PostTypeBlog && postType != constants.PostTypeNotice {
		return nil, ErrNotFound
	}

	exist, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrSlugTaken
	}

	published := false
	if input.IsPublished != nil {
		published = *input.IsPublished
	}
	publishedAt := input.PublishedAt
	if published && publishedAt == nil {
		now := time.Now()
		publishedAt = &now
	}

	post := models.Post{
		Slug:        slug,
		Type:        postType,
		Title:       title,
		Summary:     input.Summary,
		Content:     input.Content,
		Thumbnail:   input.Thumbnail,
		IsPublished: published,
		PublishedAt: publishedAt,
	}
	if err := s.repo.Create(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update 更新文章
func (s *PostService) Update(id uint, input PostInput) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	exist, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exist != nil && exist.ID != id {
		return nil, ErrSlugTaken
	}

	postType := strings.ToLower(strings.TrimSpace(input.Type))
	if postType != constants.PostTypeBlog && postType != constants.PostTypeNotice {
		return nil, ErrNotFound
	}

	post.Slug = slug
	post.Type = postType
	post.Title = strings.TrimSpace(input.Title)
	post.Summary = input.Summary
	post.Content = input.Content
	post.Thumbnail = input.Thumbnail
	if input.IsPublished != nil {
		if *input.IsPublished && !post.IsPublished && input.PublishedAt == nil && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
		post.IsPublished = *input.IsPublished
	}
	if input.PublishedAt != nil {
		post.PublishedAt = input.PublishedAt
	}

	if err := s.repo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete 删除文章
func (s *PostService) Delete(id uint) error {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}
