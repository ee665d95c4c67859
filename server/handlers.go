// Package server exposes the REST surface of the application: profile
// pages, project workspaces with their channels and blocks, the pulse
// feed, tribes, search and media upload. Handlers translate tagged
// store errors to status codes and otherwise stay thin.
package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/Luismorlan/craftvalley/auth"
	"github.com/Luismorlan/craftvalley/model"
	"github.com/Luismorlan/craftvalley/session"
	"github.com/Luismorlan/craftvalley/storage"
	"github.com/Luismorlan/craftvalley/store"
	"github.com/Luismorlan/craftvalley/utils"
	"github.com/Luismorlan/craftvalley/utils/dotenv"
	Logger "github.com/Luismorlan/craftvalley/utils/log"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// DefaultPostLoginRedirect is where the auth callback lands when the
// client supplied no redirect target.
const DefaultPostLoginRedirect = "/valley"

// CodeExchanger trades an OAuth authorization code for the identity it
// authenticates. Satisfied by auth.Exchanger.
type CodeExchanger interface {
	Exchange(ctx context.Context, code string) (*auth.Identity, error)
}

type Server struct {
	store     *store.Store
	objects   storage.ObjectStore
	exchanger CodeExchanger
	redis     *utils.RedisClient
	hub       *LiveHub
}

func NewServer(st *store.Store, objects storage.ObjectStore, exchanger CodeExchanger, redis *utils.RedisClient) *Server {
	return &Server{
		store:     st,
		objects:   objects,
		exchanger: exchanger,
		redis:     redis,
		hub:       NewLiveHub(),
	}
}

// RegisterRoutes attaches every application route to the router.
func (s *Server) RegisterRoutes(router *gin.Engine) {
	router.GET("/auth/callback", s.AuthCallback)

	api := router.Group("/api")

	api.GET("/profiles/:username", s.GetProfileByUsername)
	api.GET("/me", s.GetMyProfile)
	api.PATCH("/profiles/me", s.UpdateMyProfile)

	api.GET("/projects", s.ListProjects)
	api.POST("/projects", s.CreateProject)
	api.GET("/projects/:id", s.GetProject)
	api.PATCH("/projects/:id", s.UpdateProject)
	api.DELETE("/projects/:id", s.DeleteProject)
	api.GET("/projects/:id/channels", s.ListChannels)
	api.POST("/projects/:id/channels", s.CreateChannel)
	api.DELETE("/channels/:id", s.DeleteChannel)
	api.GET("/channels/:id/blocks", s.ListBlocks)
	api.POST("/channels/:id/blocks", s.CreateBlock)
	api.DELETE("/blocks/:id", s.DeleteBlock)

	api.GET("/pulse", s.ListPosts)
	api.POST("/pulse", s.CreatePost)
	api.GET("/pulse/live", s.LivePulse)
	api.GET("/pulse/read", s.GetPostsReadStatus)
	api.POST("/pulse/read", s.MarkPostsRead)
	api.POST("/posts/:id/like", s.LikePost)
	api.DELETE("/posts/:id/like", s.UnlikePost)
	api.POST("/posts/:id/view", s.RecordPostView)

	api.GET("/tribes", s.ListTribes)
	api.POST("/tribes", s.CreateTribe)
	api.GET("/my/tribes", s.ListMyTribes)
	api.POST("/tribes/:id/join", s.JoinTribe)
	api.POST("/tribes/:id/leave", s.LeaveTribe)

	api.GET("/search", s.Search)
	api.POST("/upload", s.Upload)
}

// AuthCallback completes the OAuth flow: exchange the code, provision
// the profile row and send the browser on to its destination.
func (s *Server) AuthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "missing authorization code"})
		return
	}

	identity, err := s.exchanger.Exchange(c.Request.Context(), code)
	if err != nil {
		Logger.Log.Error("fail to exchange authorization code: ", err)
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "authorization code rejected"})
		return
	}

	username := session.DeriveUsername(*identity)
	if _, err := s.store.UpsertProfile(c.Request.Context(), &model.Profile{
		Id:        identity.Id,
		Username:  &username,
		FullName:  identity.FullName,
		AvatarUrl: identity.AvatarUrl,
	}); err != nil {
		abortWithError(c, err)
		return
	}

	c.Redirect(http.StatusFound, sanitizeRedirect(c.Query("redirectTo")))
}

// Upload stores a multipart file in the media bucket and returns its
// public URL.
func (s *Server) Upload(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "missing file"})
		return
	}
	file, err := header.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer file.Close()

	hash, err := utils.TextToMd5Hash(viewer + header.Filename + utils.RandomAlphabetString(8))
	if err != nil {
		abortWithError(c, err)
		return
	}
	key := hash + utils.GetUrlExtNameWithDot(header.Filename)

	bucket := storage.TestS3Bucket
	if dotenv.IsProdEnv() {
		bucket = storage.ProdS3MediaBucket
	}

	url, err := s.objects.Upload(c.Request.Context(), bucket, key, file)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Search fans the term out to both server-side search procedures.
func (s *Server) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "missing search term"})
		return
	}

	projects, err := s.store.SearchProjects(c.Request.Context(), term)
	if err != nil {
		abortWithError(c, err)
		return
	}
	tribes, err := s.store.SearchTribes(c.Request.Context(), term)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "tribes": tribes})
}

func (s *Server) GetProfileByUsername(c *gin.Context) {
	profile, err := s.store.GetProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) GetMyProfile(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	profile, err := s.store.GetProfile(c.Request.Context(), viewer)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) UpdateMyProfile(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var patch view.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	profile, err := s.store.UpdateProfile(c.Request.Context(), viewer, patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// sanitizeRedirect keeps post-login redirects on our own origin. Only
// a local path is a valid target; absolute and scheme-relative URLs
// fall back to the default landing page.
func sanitizeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "//") ||
		strings.HasPrefix(target, "/\\") {
		return DefaultPostLoginRedirect
	}
	return target
}

// viewerId returns the identity id the token middleware stored, or ""
// for an anonymous request.
func viewerId(c *gin.Context) string {
	return c.Request.Header.Get("sub")
}

func requireViewer(c *gin.Context) (string, bool) {
	viewer := viewerId(c)
	if viewer == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "authentication required"})
		return "", false
	}
	return viewer, true
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"msg": err.Error()})
}

// statusFor maps tagged store errors to http status codes. Anything
// untagged is a plain server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalid):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
