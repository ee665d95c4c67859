package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/Luismorlan/craftvalley/store"
	"github.com/Luismorlan/craftvalley/utils"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

func (s *Server) ListProjects(c *gin.Context) {
	filters := store.ProjectFilters{
		TribeId: c.Query("tribeId"),
	}
	for _, raw := range splitParam(c.Query("status")) {
		status := model.ProjectStatus(raw)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "unknown project status " + raw})
			return
		}
		filters.Status = append(filters.Status, status)
	}
	filters.Tags = splitParam(c.Query("tags"))

	projects, err := s.store.ListProjects(c.Request.Context(), viewerId(c), filters)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

type createProjectRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Color         string   `json:"color"`
	Status        string   `json:"status"`
	IsPublic      bool     `json:"isPublic"`
	Tags          []string `json:"tags"`
	CoverImageUrl *string  `json:"coverImageUrl"`
	TribeId       *string  `json:"tribeId"`
}

func (s *Server) CreateProject(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	project, err := s.store.CreateProject(c.Request.Context(), model.Project{
		UserID:        viewer,
		Name:          req.Name,
		Description:   req.Description,
		Color:         req.Color,
		Status:        model.ProjectStatus(req.Status),
		IsPublic:      req.IsPublic,
		Tags:          req.Tags,
		CoverImageUrl: req.CoverImageUrl,
		TribeID:       req.TribeId,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (s *Server) GetProject(c *gin.Context) {
	project, ok := s.visibleProject(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) UpdateProject(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	if !s.requireProjectOwner(c, viewer, c.Param("id")) {
		return
	}

	var patch view.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	project, err := s.store.UpdateProject(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) DeleteProject(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	if !s.requireProjectOwner(c, viewer, c.Param("id")) {
		return
	}
	if err := s.store.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListChannels(c *gin.Context) {
	project, ok := s.visibleProject(c)
	if !ok {
		return
	}
	channels, err := s.store.ListChannels(c.Request.Context(), project.Id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

type createChannelRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *Server) CreateChannel(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	if !s.requireProjectOwner(c, viewer, c.Param("id")) {
		return
	}

	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	channel, err := s.store.CreateChannel(c.Request.Context(), model.Channel{
		ProjectID:   c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, channel)
}

func (s *Server) DeleteChannel(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	owner, err := s.store.ChannelOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if owner != viewer {
		c.JSON(http.StatusForbidden, gin.H{"msg": "only the project owner may delete channels"})
		return
	}
	if err := s.store.DeleteChannel(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListBlocks(c *gin.Context) {
	// A private project's channels are hidden from non-owners, so its
	// blocks must be too, indistinguishable from absence.
	owner, isPublic, err := s.store.ChannelProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !isPublic && owner != viewerId(c) {
		abortWithError(c, errors.Wrapf(store.ErrNotFound, "channel %s", c.Param("id")))
		return
	}

	blocks, err := s.store.ListBlocks(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}

type createBlockRequest struct {
	Type        string                 `json:"type" binding:"required"`
	Title       string                 `json:"title"`
	Content     string                 `json:"content"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
}

func (s *Server) CreateBlock(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	owner, err := s.store.ChannelOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if owner != viewer {
		c.JSON(http.StatusForbidden, gin.H{"msg": "only the project owner may add blocks"})
		return
	}

	var req createBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	row := model.Block{
		ChannelID:   c.Param("id"),
		Type:        model.BlockType(req.Type),
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
	}
	if req.Metadata != nil {
		metadata, err := json.Marshal(req.Metadata)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
			return
		}
		row.Metadata = metadata
	}
	block, err := s.store.CreateBlock(c.Request.Context(), row)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (s *Server) DeleteBlock(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	owner, err := s.store.BlockOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if owner != viewer {
		c.JSON(http.StatusForbidden, gin.H{"msg": "only the project owner may delete blocks"})
		return
	}
	if err := s.store.DeleteBlock(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// visibleProject fetches the routed project and hides private projects
// from everyone but their owner, indistinguishable from absence.
func (s *Server) visibleProject(c *gin.Context) (*view.Project, bool) {
	project, err := s.store.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	if !project.IsPublic && project.UserId != viewerId(c) {
		abortWithError(c, errors.Wrapf(store.ErrNotFound, "project %s", project.Id))
		return nil, false
	}
	return project, true
}

func (s *Server) requireProjectOwner(c *gin.Context, viewer, projectId string) bool {
	project, err := s.store.GetProject(c.Request.Context(), projectId)
	if err != nil {
		abortWithError(c, err)
		return false
	}
	if project.UserId != viewer {
		c.JSON(http.StatusForbidden, gin.H{"msg": "only the owner may modify a project"})
		return false
	}
	return true
}

// splitParam splits a comma-separated query value, dropping blanks and
// repeats.
func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" && !utils.ContainsString(parts, p) {
			parts = append(parts, p)
		}
	}
	return parts
}
