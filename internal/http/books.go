package http

import (
	"github.com/gin-gonic/gin"

	"github.com/emanuelaromano/book-manager/internal/database/books"
	"github.com/emanuelaromano/book-manager/internal/http/response"
)

// BooksController serves /api/books. Routes are expected behind
// auth.Middleware.RequireAuth.
type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{
		store: store,
	}
}

func (controller *BooksController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", controller.List)
	rg.POST("", controller.Create)
	rg.GET("/:id", controller.Get)
	rg.PUT("/:id", controller.Update)
	rg.DELETE("/:id", controller.Delete)
}

// List returns the user's books, newest first.
func (controller *BooksController) List(c *gin.Context) {
	list, err := controller.store.List(c.Request.Context(), GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (controller *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.store.Get(c.Request.Context(), GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, book)
}

func (controller *BooksController) Create(c *gin.Context) {
	var in books.Input
	if !bindJSON(c, &in) {
		return
	}

	book, err := controller.store.Create(c.Request.Context(), GetUserID(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, book)
}

// Update applies a partial update: omitted fields are kept, null clears.
func (controller *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch books.Patch
	if !bindJSON(c, &patch) {
		return
	}

	book, err := controller.store.Update(c.Request.Context(), GetUserID(c), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, book)
}

func (controller *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.store.Delete(c.Request.Context(), GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Ack(c)
}
