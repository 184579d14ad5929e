package repository

import (
	"context"
	"database/sql"

	"github.com/adityarawat/newsroom/internal/model"
)

// NewsRepo persists news items in the 'news' table.
type NewsRepo struct{ DB *sql.DB }

func NewNewsRepo(db *sql.DB) *NewsRepo { return &NewsRepo{DB: db} }

// Create inserts a news item and returns it with generated fields filled in.
func (r *NewsRepo) Create(ctx context.Context, title, date, description, image string) (model.News, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO news (title, date, description, image) VALUES (?,?,?,?)",
		title, date, description, image)
	if err != nil {
		return model.News{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.News{}, err
	}
	var n model.News
	err = r.DB.QueryRowContext(ctx,
		"SELECT id,title,date,description,image,created_at,updated_at FROM news WHERE id=?",
		id).Scan(&n.ID, &n.Title, &n.Date, &n.Description, &n.Image, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// List returns all news items, newest first.
func (r *NewsRepo) List(ctx context.Context) ([]model.News, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,date,description,image,created_at,updated_at FROM news ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.News
	for rows.Next() {
		var n model.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Date, &n.Description, &n.Image,
			&n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
