// Package web provides the HTTP server and web interface for go-todoleaf
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-todoleaf/internal/config"
	"github.com/go-while/go-todoleaf/internal/models"
	"github.com/go-while/go-todoleaf/internal/store"
)

// WebServer represents the web server
type WebServer struct {
	Store     *store.Holder
	Router    *gin.Engine
	Config    *config.WebConfig
	templates map[string]*template.Template
	StartTime time.Time // reported as uptime by /readyz
	server    *http.Server
}

// TemplateData represents common template data
type TemplateData struct {
	Title       template.HTML
	CurrentTime string
	AppVersion  string
}

// ListPageData represents data for the todo list page
type ListPageData struct {
	TemplateData
	models.ListPage
	LeftLabel string
}

// NewServer creates a new web server instance
func NewServer(holder *store.Holder, webconfig *config.WebConfig) *WebServer {
	if webconfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Configure Gin to trust reverse proxy headers
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	pages, err := loadTemplates()
	if err != nil {
		panic(err)
	}

	server := &WebServer{
		Store:     holder,
		Router:    router,
		Config:    webconfig,
		templates: pages,
		StartTime: time.Now(),
	}

	router.Use(server.ApacheLogFormat())
	router.Use(secure.New(secureConfig))
	router.Use(server.ReverseProxyMiddleware())

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// Static files first
	s.Router.GET("/static/*filepath", EmbeddedStaticHandler("/static"))

	s.Router.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	s.Router.GET("/readyz", s.readyz)

	// Todo routes
	s.Router.GET("/", s.listPage)
	s.Router.POST("/addTodo", s.addTodo)
	s.Router.PUT("/markComplete", s.markComplete)
	s.Router.PUT("/markUnComplete", s.markUnComplete)
	s.Router.DELETE("/deleteItem", s.deleteItem)
}

// Start starts the web server with SSL support if configured.
// It returns http.ErrServerClosed after Shutdown.
func (s *WebServer) Start() error {
	addr := ":" + strconv.Itoa(s.Config.ListenPort)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("[WEB]: Starting HTTPS server on %s", addr)
		return s.server.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server on %s", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops a server started with Start
func (s *WebServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// ReverseProxyMiddleware handles X-Forwarded headers when running behind a reverse proxy
func (s *WebServer) ReverseProxyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Handle X-Forwarded-Proto to detect if the original request was HTTPS
		if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
			c.Request.URL.Scheme = "https"
		}

		// Handle X-Forwarded-Host to get the original host
		if host := c.GetHeader("X-Forwarded-Host"); host != "" {
			c.Request.Host = strings.TrimSpace(host)
		}

		c.Next()
	}
}

// ApacheLogFormat logs requests in Apache combined format
func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}

// readyz reports whether the store has been connected
func (s *WebServer) readyz(c *gin.Context) {
	if _, err := s.Store.Get(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": s.Store.State().String(), "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": store.StateReady.String(),
		"uptime": time.Since(s.StartTime).Round(time.Second).String(),
	})
}
