package web

import (
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-todoleaf/internal/config"
	"github.com/go-while/go-todoleaf/internal/store"
)

// getBaseTemplateData creates a TemplateData struct with common information
func (s *WebServer) getBaseTemplateData(title string) TemplateData {
	return TemplateData{
		Title:       template.HTML(template.HTMLEscapeString(title)),
		CurrentTime: time.Now().Format("2006-01-02 15:04:05"),
		AppVersion:  config.AppVersion,
	}
}

// renderError renders an error page
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	errorData := struct {
		TemplateData
		Error      string
		StatusCode int
	}{
		TemplateData: s.getBaseTemplateData("Error"),
		Error:        message,
		StatusCode:   statusCode,
	}
	log.Printf("[WEB]: Error %d: %s - %s", statusCode, message, errstring)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(statusCode)
	if err := s.templates["error.html"].ExecuteTemplate(c.Writer, "base.html", errorData); err != nil {
		log.Printf("[WEB]: Error rendering error template: %v", err)
		c.String(statusCode, "Error: %s", message)
	}
}

// renderTemplate renders a page inside base.html
func (s *WebServer) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	tmpl, ok := s.templates[templateName]
	if !ok {
		s.renderError(c, http.StatusInternalServerError, "Template error", "unknown template "+templateName)
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		// headers are gone already, log only
		log.Printf("[WEB]: Error rendering template %s: %v", templateName, err)
	}
}

// getStoreHTML returns the store or renders a 503 page
func (s *WebServer) getStoreHTML(c *gin.Context) (store.TodoStore, bool) {
	st, err := s.Store.Get()
	if err != nil {
		s.renderError(c, http.StatusServiceUnavailable, store.ErrNotReady.Error(), err.Error())
		return nil, false
	}
	return st, true
}

// getStoreAPI returns the store or aborts with a 503 JSON error
func (s *WebServer) getStoreAPI(c *gin.Context) (store.TodoStore, bool) {
	st, err := s.Store.Get()
	if err != nil {
		log.Printf("[WEB]: %s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": store.ErrNotReady.Error()})
		return nil, false
	}
	return st, true
}
