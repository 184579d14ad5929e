package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adityarawat/newsroom/internal/model"
	"github.com/adityarawat/newsroom/internal/storage"
)

// NewsStore is the persistence surface for news items.  Satisfied by
// *repository.NewsRepo.
type NewsStore interface {
	Create(ctx context.Context, title, date, description, image string) (model.News, error)
	List(ctx context.Context) ([]model.News, error)
}

// NewsHandler serves the news feature: authenticated create-with-image and
// list.
type NewsHandler struct {
	News    NewsStore
	Uploads *storage.Store
}

func NewNewsHandler(news NewsStore, uploads *storage.Store) *NewsHandler {
	return &NewsHandler{News: news, Uploads: uploads}
}

// CreateNews stores a news item from a multipart form.  Title, date,
// description and the image file are all required.
func (h *NewsHandler) CreateNews(c echo.Context) error {
	title := c.FormValue("title")
	date := c.FormValue("date")
	description := c.FormValue("description")
	if title == "" || date == "" || description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, date and description are required"})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image is required"})
	}
	ref, err := h.Uploads.Save(fh, "image")
	if err == storage.ErrTooLarge {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file too large"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.News.Create(ctx, title, date, description, ref)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create news"})
	}
	return c.JSON(http.StatusCreated, item)
}

// ListNews returns all news items, newest first.
func (h *NewsHandler) ListNews(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.News.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch news"})
	}
	if items == nil {
		items = []model.News{}
	}
	return c.JSON(http.StatusOK, items)
}
