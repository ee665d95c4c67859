package server

import (
	"net/http"
	"strconv"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/Luismorlan/craftvalley/store"
	"github.com/Luismorlan/craftvalley/utils"
	"github.com/gin-gonic/gin"
)

const (
	defaultPulsePageSize = 20
	maxPulsePageSize     = 100
)

func (s *Server) ListPosts(c *gin.Context) {
	filters := store.PostFilters{
		ProjectId: c.Query("projectId"),
		TribeId:   c.Query("tribeId"),
		UserId:    c.Query("userId"),
	}
	for _, raw := range splitParam(c.Query("type")) {
		kind := model.PostType(raw)
		if !kind.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "unknown post type " + raw})
			return
		}
		filters.Type = append(filters.Type, kind)
	}
	if raw := c.Query("featured"); raw != "" {
		featured := raw == "true"
		filters.IsFeatured = &featured
	}

	limit := utils.Min(intParam(c, "limit", defaultPulsePageSize), maxPulsePageSize)
	offset := intParam(c, "offset", 0)

	posts, err := s.store.ListPosts(c.Request.Context(), viewerId(c), filters, limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

type createPostRequest struct {
	Type         string  `json:"type"`
	Title        string  `json:"title"`
	Content      string  `json:"content" binding:"required"`
	ProjectId    *string `json:"projectId"`
	TribeId      *string `json:"tribeId"`
	MediaUrl     string  `json:"mediaUrl"`
	MediaType    string  `json:"mediaType"`
	ThumbnailUrl string  `json:"thumbnailUrl"`
}

func (s *Server) CreatePost(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	if req.Type == "" {
		req.Type = string(model.PostTypeProgress)
	}

	post, err := s.store.CreatePost(c.Request.Context(), model.Post{
		UserID:       viewer,
		ProjectID:    req.ProjectId,
		TribeID:      req.TribeId,
		Type:         model.PostType(req.Type),
		Title:        req.Title,
		Content:      req.Content,
		MediaUrl:     req.MediaUrl,
		MediaType:    req.MediaType,
		ThumbnailUrl: req.ThumbnailUrl,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.hub.BroadcastPost(*post)
	c.JSON(http.StatusCreated, post)
}

func (s *Server) LikePost(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	kind := model.LikeType(c.Query("kind"))
	if err := s.store.LikePost(c.Request.Context(), viewer, c.Param("id"), kind); err != nil {
		abortWithError(c, err)
		return
	}
	count, err := s.store.PostLikeCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likeCount": count})
}

func (s *Server) UnlikePost(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	if err := s.store.UnlikePost(c.Request.Context(), viewer, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	count, err := s.store.PostLikeCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likeCount": count})
}

func (s *Server) RecordPostView(c *gin.Context) {
	if err := s.store.RecordPostView(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPostsReadStatus reports, for each requested post id in order,
// whether the viewer has already seen it on the feed.
func (s *Server) GetPostsReadStatus(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	postIds := splitParam(c.Query("ids"))
	if len(postIds) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": []bool{}})
		return
	}
	status, err := s.redis.GetPostsReadStatus(c.Request.Context(), postIds, viewer)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

type markPostsReadRequest struct {
	PostIds []string `json:"postIds" binding:"required"`
}

func (s *Server) MarkPostsRead(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var req markPostsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	if err := s.redis.MarkPostsAsRead(c.Request.Context(), req.PostIds, viewer); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func intParam(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
