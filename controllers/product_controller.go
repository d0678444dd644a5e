package controllers

import (
	"net/http"

	"cart-shop/models"
	"cart-shop/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
)

type ProductController struct {
	products *services.ProductService
	decoder  *schema.Decoder
}

func NewProductController(products *services.ProductService) *ProductController {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &ProductController{products: products, decoder: decoder}
}

// @Summary List products
// @Description Paginated product list, filterable by uuid and name
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param uuid query string false "Exact product UUID"
// @Param name query string false "Name contains"
// @Success 200 {object} models.PaginationResponse
// @Router /products [get]
func (ctrl *ProductController) List(c *gin.Context) {
	var filter models.ProductFilter
	if err := ctrl.decoder.Decode(&filter, c.Request.URL.Query()); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := ctrl.products.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get product
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) Get(c *gin.Context) {
	product, err := ctrl.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Product retrieved", product)
}

// @Summary Create product
// @Tags Admin - Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateProductRequest true "Product"
// @Success 201 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Router /products [post]
func (ctrl *ProductController) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := ctrl.products.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Product created", product)
}

// @Summary Update product
// @Description Partial update; only the fields present are changed
// @Tags Admin - Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param request body models.ProductPatch true "Fields to change"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [put]
func (ctrl *ProductController) Update(c *gin.Context) {
	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := ctrl.products.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Product updated", product)
}

// @Summary Delete product
// @Tags Admin - Products
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /products/{id} [delete]
func (ctrl *ProductController) Delete(c *gin.Context) {
	if err := ctrl.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Product deleted", nil)
}
