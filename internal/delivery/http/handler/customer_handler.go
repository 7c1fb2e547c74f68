package handler

import (
	"net/http"

	"crm-service/internal/middleware"
	"crm-service/internal/usecase/customer"
	"crm-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	service *customer.Service
}

func NewCustomerHandler(service *customer.Service) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// RegisterRoutes binds the customer surface. The router applies the auth
// middleware; no admin role is required here.
func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:customer_id", h.Get)
		customers.PATCH("/:customer_id", h.Update)
		customers.DELETE("/:customer_id", h.Delete)
		customers.POST("/:customer_id/photo", h.UploadPhoto)
	}
}

func (h *CustomerHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req customer.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = utils.SanitizeString(req.Name)
	req.Surname = utils.SanitizeString(req.Surname)

	created, err := h.service.Create(c.Request.Context(), &req, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *CustomerHandler) List(c *gin.Context) {
	var req customer.ListCustomersRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	customers, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req customer.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		sanitized := utils.SanitizeString(*req.Name)
		req.Name = &sanitized
	}
	if req.Surname != nil {
		sanitized := utils.SanitizeString(*req.Surname)
		req.Surname = &sanitized
	}

	if err := h.service.Update(c.Request.Context(), c.Param("customer_id"), &req, actor); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("customer_id"), actor); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CustomerHandler) UploadPhoto(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req customer.UploadPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	photo, err := h.service.UploadPhoto(c.Request.Context(), c.Param("customer_id"), &req, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, photo)
}
