// Package devserver serves an in-memory posts collection over REST for
// local development and tests.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

type Server struct {
	store  *memoryStore
	log    logging.Logger
	secret []byte
}

// New returns a server. When secret is non-empty, mutating requests must
// carry a bearer token signed with it.
func New(log logging.Logger, secret []byte) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{
		store:  newMemoryStore(),
		log:    log.With("component", "devserver"),
		secret: secret,
	}
}

// Seed adds posts as if they had been created through the API.
func (s *Server) Seed(posts ...models.Post) {
	for _, p := range posts {
		s.store.create(p)
	}
}

func (s *Server) Handler() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery(), s.accessLog())
	s.Routes(engine.Group("/"))
	return engine
}

func (s *Server) Routes(g *gin.RouterGroup) {
	posts := g.Group("/posts")
	posts.GET("", s.handleList)
	posts.GET("/:id", s.handleGet)

	mutating := posts.Group("", s.requireToken())
	mutating.POST("", s.handleCreate)
	mutating.PUT("/:id", s.handleUpdate)
	mutating.DELETE("/:id", s.handleDelete)
}

// Run serves h on addr until ctx is done.
func Run(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleList(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.list())
}

func (s *Server) handleGet(c *gin.Context) {
	p, ok := s.store.get(models.PostID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleCreate(c *gin.Context) {
	var p models.Post
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created := s.store.create(p)
	s.log.Debug(c.Request.Context(), "post created", "id", created.ID)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdate(c *gin.Context) {
	var p models.Post
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, ok := s.store.replace(models.PostID(c.Param("id")), p)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDelete(c *gin.Context) {
	if !s.store.delete(models.PostID(c.Param("id"))) {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(s.secret) == 0 {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		email, err := auth.SubjectFromToken(raw, s.secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("email", email)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}
