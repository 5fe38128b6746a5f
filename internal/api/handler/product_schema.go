package handler

import (
	"github.com/99minutos/catalog-system/internal/core/ports"
)

// --- Request / Response types ---

type createProductRequest struct {
	Title       string   `json:"title"       validate:"required,min=1"`
	Price       float64  `json:"price"`
	Description *string  `json:"description"`
	Slug        string   `json:"slug"`
	Stock       int      `json:"stock"`
	Sizes       []string `json:"sizes"       validate:"omitempty,dive,required"`
	Gender      string   `json:"gender"`
	Tags        []string `json:"tags"        validate:"omitempty,dive,required"`
	Images      []string `json:"images"      validate:"omitempty,dive,required"`
}

// updateProductRequest is a partial patch. A missing or null "images" keeps
// the current images; an empty array removes them all.
type updateProductRequest struct {
	Title       *string   `json:"title"       validate:"omitempty,min=1"`
	Price       *float64  `json:"price"`
	Description *string   `json:"description"`
	Slug        *string   `json:"slug"        validate:"omitempty,min=1"`
	Stock       *int      `json:"stock"`
	Sizes       *[]string `json:"sizes"       validate:"omitempty,dive,required"`
	Gender      *string   `json:"gender"`
	Tags        *[]string `json:"tags"        validate:"omitempty,dive,required"`
	Images      *[]string `json:"images"      validate:"omitempty,dive,required"`
}

type productResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description *string  `json:"description"`
	Slug        string   `json:"slug"`
	Stock       int      `json:"stock"`
	Sizes       []string `json:"sizes"`
	Gender      string   `json:"gender"`
	Tags        []string `json:"tags"`
	UserID      string   `json:"user_id"`
	Images      []string `json:"images"`
}

// --- Request → Service input ---

func toCreateInput(req createProductRequest, idempotencyKey string) ports.CreateProductInput {
	return ports.CreateProductInput{
		Title:          req.Title,
		Price:          req.Price,
		Description:    req.Description,
		Slug:           req.Slug,
		Stock:          req.Stock,
		Sizes:          req.Sizes,
		Gender:         req.Gender,
		Tags:           req.Tags,
		Images:         req.Images,
		IdempotencyKey: idempotencyKey,
	}
}

func toUpdateInput(req updateProductRequest) ports.UpdateProductInput {
	return ports.UpdateProductInput{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		Slug:        req.Slug,
		Stock:       req.Stock,
		Sizes:       req.Sizes,
		Gender:      req.Gender,
		Tags:        req.Tags,
		Images:      req.Images,
	}
}

// --- Service output → Response ---

func toProductResponse(v *ports.ProductView) productResponse {
	return productResponse{
		ID:          v.ID,
		Title:       v.Title,
		Price:       v.Price,
		Description: v.Description,
		Slug:        v.Slug,
		Stock:       v.Stock,
		Sizes:       nonNilStrings(v.Sizes),
		Gender:      v.Gender,
		Tags:        nonNilStrings(v.Tags),
		UserID:      v.UserID,
		Images:      nonNilStrings(v.Images),
	}
}

func toProductResponses(views []*ports.ProductView) []productResponse {
	out := make([]productResponse, len(views))
	for i, v := range views {
		out[i] = toProductResponse(v)
	}
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
