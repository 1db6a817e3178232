package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-todoleaf/internal/models"
)

// Each todo route maps to exactly one store operation (list does two reads).
// Store failures on the update routes are logged only: the client gets a bare
// 500 and no acknowledgment.

// listPage handles "/" and renders every item with the remaining count
func (s *WebServer) listPage(c *gin.Context) {
	st, ok := s.getStoreHTML(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	items, err := st.ListTodos(ctx)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Failed to load todos", err.Error())
		return
	}
	left, err := st.CountRemaining(ctx)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Failed to count todos", err.Error())
		return
	}

	data := ListPageData{
		TemplateData: s.getBaseTemplateData("Todo List"),
		ListPage:     models.ListPage{Items: items, Left: left},
		LeftLabel:    leftLabel(left),
	}
	s.renderTemplate(c, "index.html", data)
}

// addTodo handles the form post from the list page
func (s *WebServer) addTodo(c *gin.Context) {
	st, ok := s.getStoreAPI(c)
	if !ok {
		return
	}

	thing := c.PostForm("todoItem")
	if _, err := st.AddTodo(c.Request.Context(), thing); err != nil {
		log.Printf("[WEB]: addTodo failed: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	log.Printf("[WEB]: Todo Added")
	c.Redirect(http.StatusFound, "/")
}

// bindItem decodes {"itemFromJS": "..."} or aborts with 400
func (s *WebServer) bindItem(c *gin.Context) (string, bool) {
	var req models.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return "", false
	}
	return *req.ItemFromJS, true
}

// setCompleted backs markComplete and markUnComplete
func (s *WebServer) setCompleted(c *gin.Context, completed bool) {
	st, ok := s.getStoreAPI(c)
	if !ok {
		return
	}
	thing, ok := s.bindItem(c)
	if !ok {
		return
	}

	if _, err := st.SetCompleted(c.Request.Context(), thing, completed); err != nil {
		log.Printf("[WEB]: setCompleted(%t) failed: %v", completed, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	log.Printf("[WEB]: Marked completed=%t", completed)
	c.JSON(http.StatusOK, models.AckMarkedComplete)
}

func (s *WebServer) markComplete(c *gin.Context) {
	s.setCompleted(c, true)
}

func (s *WebServer) markUnComplete(c *gin.Context) {
	s.setCompleted(c, false)
}

// deleteItem removes the first item whose text matches
func (s *WebServer) deleteItem(c *gin.Context) {
	st, ok := s.getStoreAPI(c)
	if !ok {
		return
	}
	thing, ok := s.bindItem(c)
	if !ok {
		return
	}

	if _, err := st.DeleteTodo(c.Request.Context(), thing); err != nil {
		log.Printf("[WEB]: deleteItem failed: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	log.Printf("[WEB]: Todo Deleted")
	c.JSON(http.StatusOK, models.AckTodoDeleted)
}
