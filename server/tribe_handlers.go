package server

import (
	"net/http"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListTribes(c *gin.Context) {
	tribes, err := s.store.ListTribes(c.Request.Context(), viewerId(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tribes)
}

func (s *Server) ListMyTribes(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	tribes, err := s.store.ListUserTribes(c.Request.Context(), viewer)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tribes)
}

type createTribeRequest struct {
	Name          string   `json:"name" binding:"required"`
	Slug          string   `json:"slug" binding:"required"`
	Description   string   `json:"description"`
	CoverImageUrl string   `json:"coverImageUrl"`
	IconUrl       string   `json:"iconUrl"`
	IsPublic      bool     `json:"isPublic"`
	Tags          []string `json:"tags"`
	Rules         []string `json:"rules"`
}

func (s *Server) CreateTribe(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var req createTribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	tribe, err := s.store.CreateTribe(c.Request.Context(), model.Tribe{
		CreatorID:     viewer,
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		CoverImageUrl: req.CoverImageUrl,
		IconUrl:       req.IconUrl,
		IsPublic:      req.IsPublic,
		Tags:          req.Tags,
		Rules:         req.Rules,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tribe)
}

func (s *Server) JoinTribe(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	if err := s.store.JoinTribe(c.Request.Context(), viewer, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) LeaveTribe(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	if err := s.store.LeaveTribe(c.Request.Context(), viewer, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
