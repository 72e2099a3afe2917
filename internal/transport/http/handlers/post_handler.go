package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/example/blog-api/internal/models"
	"github.com/example/blog-api/internal/repository"
	"github.com/example/blog-api/internal/service"
)

// DeletionConfirmation is the body of a successful delete.
const DeletionConfirmation = "Deletion successful"

type PostHandler struct {
	service *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{service: svc}
}

// postReq holds the title and content read from a JSON or form body.
// Unknown fields are dropped. invalid lists values that are not text.
type postReq struct {
	Title   *string `form:"title"`
	Content *string `form:"content"`

	invalid *models.ValidationError
}

// bindPost fails only for a body that cannot be parsed. JSON scalars are
// read as their text, null as an empty value, and an empty JSON body binds
// nothing.
func bindPost(c *gin.Context) (postReq, error) {
	var req postReq
	if c.ContentType() != binding.MIMEJSON {
		err := c.ShouldBind(&req)
		return req, err
	}
	var raw map[string]interface{}
	if c.Request.Body != nil {
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return req, err
		}
	}
	fields := []struct {
		name string
		dst  **string
	}{
		{models.FieldTitle, &req.Title},
		{models.FieldContent, &req.Content},
	}
	for _, f := range fields {
		v, ok := raw[f.name]
		if !ok {
			continue
		}
		text, ok := jsonText(v)
		if !ok {
			if req.invalid == nil {
				req.invalid = &models.ValidationError{Errors: map[string]models.FieldError{}}
			}
			b, _ := json.Marshal(v)
			req.invalid.Errors[f.name] = models.FieldError{
				Kind:    "string",
				Message: fmt.Sprintf("Cast to string failed for value %s", b),
				Path:    f.name,
				Value:   string(b),
			}
			continue
		}
		*f.dst = &text
	}
	return req, nil
}

func jsonText(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func (r postReq) update() models.PostUpdate {
	return models.PostUpdate{Title: r.Title, Content: r.Content}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// errorBody renders err as the JSON error object used by list, get and update.
func errorBody(err error) interface{} {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return gin.H{"name": "ValidationError", "message": verr.Error(), "errors": verr.Errors}
	case errors.Is(err, repository.ErrInvalidID):
		return gin.H{"name": "InvalidIDError", "message": err.Error()}
	default:
		return gin.H{"name": "StoreError", "message": err.Error()}
	}
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.service.ListPosts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorBody(err))
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	req, err := bindPost(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, err.Error())
		return
	}
	if req.invalid != nil {
		_ = c.Error(req.invalid)
		c.JSON(http.StatusInternalServerError, req.invalid.Error())
		return
	}
	post, err := h.service.CreatePost(c.Request.Context(), service.CreatePostInput{Title: deref(req.Title), Content: deref(req.Content)})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetPost answers 200 with null when the id is well formed but unknown.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.service.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, errorBody(err))
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	req, err := bindPost(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"name": "BindError", "message": err.Error()})
		return
	}
	if req.invalid != nil {
		_ = c.Error(req.invalid)
		c.JSON(http.StatusBadRequest, errorBody(req.invalid))
		return
	}
	post, err := h.service.UpdatePost(c.Request.Context(), c.Param("id"), req.update())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, errorBody(err))
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.service.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, "Error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, DeletionConfirmation)
}

func (h *PostHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	res, err := h.service.Search(c.Request.Context(), q)
	if errors.Is(err, service.ErrSearchDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
