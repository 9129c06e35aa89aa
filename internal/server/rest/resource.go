package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

// resource serves create/update/delete/list/get for one table. key names
// the single-item field of the response, listKey the collection field.
type resource[In, Out any] struct {
	svc     crudService[In, Out]
	key     string
	listKey string
	label   string
}

func (r *resource[In, Out]) mount(g *gin.RouterGroup) {
	g.POST("/create", r.create)
	g.PUT("/:id", r.update)
	g.DELETE("/:id", r.delete)
	g.GET("", r.list)
	g.GET("/", r.list)
	g.GET("/:id", r.get)
}

// fail renders a bare not-found as "<label> not found"; other errors go
// through writeError.
func (r *resource[In, Out]) fail(c *gin.Context, err error) {
	var reason *common.Error
	if !errors.As(err, &reason) && errors.Is(err, common.ErrorNotFound) {
		abort(c, http.StatusNotFound, r.label+" not found")
		return
	}
	writeError(c, err)
}

// id parses the :id path parameter. Non-integer ids are reported as not found.
func (r *resource[In, Out]) id(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		r.fail(c, common.ErrorNotFound)
		return 0, false
	}
	return id, true
}

func (r *resource[In, Out]) create(c *gin.Context) {
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	out, err := r.svc.Create(c.Request.Context(), in)
	if err != nil {
		r.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": r.label + " created successfully", r.key: out})
}

func (r *resource[In, Out]) update(c *gin.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}

	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	out, err := r.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		r.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": r.label + " updated successfully", r.key: out})
}

func (r *resource[In, Out]) delete(c *gin.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}

	if err := r.svc.Delete(c.Request.Context(), id); err != nil {
		r.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": r.label + " deleted successfully"})
}

func (r *resource[In, Out]) list(c *gin.Context) {
	items, err := r.svc.List(c.Request.Context())
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{r.listKey: items})
}

func (r *resource[In, Out]) get(c *gin.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}

	out, err := r.svc.Get(c.Request.Context(), id)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{r.key: out})
}
