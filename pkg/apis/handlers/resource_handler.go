// Package handlers exposes one collection's lifecycle operations as gin
// routes. Handlers bind input, resolve the requester and delegate; all
// policy and validation lives in the controller.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turboapi/turbo/pkg/controllers"
	"github.com/turboapi/turbo/pkg/errors"
	"github.com/turboapi/turbo/pkg/logging"
	"github.com/turboapi/turbo/pkg/middleware"
	"github.com/turboapi/turbo/pkg/schema"
	"github.com/turboapi/turbo/pkg/store"
)

type ResourceHandler struct {
	collection *schema.Collection
	controller controllers.LifecycleController
}

func NewResourceHandler(col *schema.Collection, db store.DataService, logger logging.Logger) (*ResourceHandler, error) {
	controller, err := controllers.NewLifecycleController(col, db, logger)
	if err != nil {
		return nil, err
	}
	return &ResourceHandler{
		collection: col,
		controller: controller,
	}, nil
}

// RegisterBasic mounts the core CRUD routes:
//
//	POST   ""                        create
//	GET    ""                        list active
//	GET    /item/:id                 get one
//	PUT    /item/:id                 update
//	PUT    /item/:id/archive         archive
//	DELETE /item/:id                 delete
func (h *ResourceHandler) RegisterBasic(rg gin.IRouter) {
	rg.POST("", h.Create)
	rg.GET("", h.GetActive)
	rg.GET("/item/:id", h.GetByID)
	rg.PUT("/item/:id", h.Update)
	rg.PUT("/item/:id/archive", h.Archive)
	rg.DELETE("/item/:id", h.Delete)
}

// RegisterFull mounts everything RegisterBasic does plus the admin and
// query routes: /all, /recent, /mine, /owner/:userId, /prop/:prop/:value,
// POST /query and /item/:id/dearchive.
func (h *ResourceHandler) RegisterFull(rg gin.IRouter) {
	h.RegisterBasic(rg)
	rg.GET("/all", h.GetAll)
	rg.GET("/recent", h.GetRecent)
	rg.GET("/mine", h.GetMine)
	rg.GET("/owner/:userId", h.GetUserDocuments)
	rg.GET("/prop/:prop/:value", h.GetByProp)
	rg.POST("/query", h.GetByProps)
	rg.PUT("/item/:id/dearchive", h.Dearchive)
}

func (h *ResourceHandler) Create(c *gin.Context) {
	var data store.Document
	if err := c.ShouldBindJSON(&data); err != nil {
		c.Error(errors.NewValidationError("invalid request body").WithReason(err.Error()))
		return
	}

	doc, err := h.controller.Create(c.Request.Context(), data, middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *ResourceHandler) GetByID(c *gin.Context) {
	doc, err := h.controller.GetByID(c.Request.Context(), c.Param("id"), middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ResourceHandler) GetActive(c *gin.Context) {
	docs, err := h.controller.GetActive(c.Request.Context(), middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *ResourceHandler) GetAll(c *gin.Context) {
	docs, err := h.controller.GetAll(c.Request.Context(), middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *ResourceHandler) GetRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	docs, err := h.controller.GetRecent(c.Request.Context(), limit, middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *ResourceHandler) GetMine(c *gin.Context) {
	docs, err := h.controller.GetMine(c.Request.Context(), middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *ResourceHandler) GetUserDocuments(c *gin.Context) {
	docs, err := h.controller.GetUserDocuments(c.Request.Context(), c.Param("userId"), middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *ResourceHandler) GetByProp(c *gin.Context) {
	docs, err := h.controller.GetByProp(c.Request.Context(), c.Param("prop"), c.Param("value"), middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *ResourceHandler) GetByProps(c *gin.Context) {
	var props map[string]any
	if err := c.ShouldBindJSON(&props); err != nil {
		c.Error(errors.NewValidationError("invalid request body").WithReason(err.Error()))
		return
	}

	docs, err := h.controller.GetByProps(c.Request.Context(), props, middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *ResourceHandler) Update(c *gin.Context) {
	var data store.Document
	if err := c.ShouldBindJSON(&data); err != nil {
		c.Error(errors.NewValidationError("invalid request body").WithReason(err.Error()))
		return
	}

	doc, err := h.controller.Update(c.Request.Context(), c.Param("id"), data, middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ResourceHandler) Archive(c *gin.Context) {
	doc, err := h.controller.Archive(c.Request.Context(), c.Param("id"), middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ResourceHandler) Dearchive(c *gin.Context) {
	doc, err := h.controller.Dearchive(c.Request.Context(), c.Param("id"), middleware.RequesterFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.controller.Delete(c.Request.Context(), c.Param("id"), middleware.RequesterFrom(c)); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}
