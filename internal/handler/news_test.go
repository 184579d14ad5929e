package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/adityarawat/newsroom/internal/model"
	"github.com/adityarawat/newsroom/internal/storage"
)

type fakeNews struct {
	mu    sync.Mutex
	items []model.News
}

func (f *fakeNews) Create(_ context.Context, title, date, description, image string) (model.News, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := model.News{
		ID: uint64(len(f.items) + 1), Title: title, Date: date,
		Description: description, Image: image,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	f.items = append(f.items, n)
	return n, nil
}

func (f *fakeNews) List(_ context.Context) ([]model.News, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.News(nil), f.items...), nil
}

func newsForm(t *testing.T, fields map[string]string, withImage bool, imageSize int) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withImage {
		fw, err := w.CreateFormFile("image", "cover.jpg")
		require.NoError(t, err)
		_, err = fw.Write(bytes.Repeat([]byte("j"), imageSize))
		require.NoError(t, err)
	}
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func newNewsEnv(t *testing.T, maxUpload int64) (*NewsHandler, *fakeNews) {
	t.Helper()
	uploads, err := storage.New(t.TempDir(), maxUpload)
	require.NoError(t, err)
	store := &fakeNews{}
	return NewNewsHandler(store, uploads), store
}

func TestCreateNews(t *testing.T) {
	t.Parallel()
	h, store := newNewsEnv(t, 1<<20)

	fields := map[string]string{
		"title":       "Launch day",
		"date":        "2026-08-31",
		"description": "It shipped.",
	}
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(newsForm(t, fields, true, 512), rec)
	require.NoError(t, h.CreateNews(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.News
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "Launch day", created.Title)
	require.NotEmpty(t, created.Image)

	items, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestCreateNews_MissingFields(t *testing.T) {
	t.Parallel()
	h, _ := newNewsEnv(t, 1<<20)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(newsForm(t, map[string]string{"title": "only title"}, true, 10), rec)
	require.NoError(t, h.CreateNews(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateNews_MissingImage(t *testing.T) {
	t.Parallel()
	h, _ := newNewsEnv(t, 1<<20)

	fields := map[string]string{"title": "t", "date": "d", "description": "x"}
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(newsForm(t, fields, false, 0), rec)
	require.NoError(t, h.CreateNews(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateNews_ImageTooLarge(t *testing.T) {
	t.Parallel()
	h, _ := newNewsEnv(t, 128)

	fields := map[string]string{"title": "t", "date": "d", "description": "x"}
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(newsForm(t, fields, true, 256), rec)
	require.NoError(t, h.CreateNews(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListNews_EmptyIsArray(t *testing.T) {
	t.Parallel()
	h, _ := newNewsEnv(t, 1<<20)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, h.ListNews(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}
