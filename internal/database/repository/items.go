package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/shoplist/internal/model"
)

// ItemRepo handles the items table.
type ItemRepo struct {
	db *sql.DB
}

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

// Insert stores a new row and returns it with its generated id.
func (r *ItemRepo) Insert(ctx context.Context, name string) (model.Item, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO items(name) VALUES (?)`, name)
	if err != nil {
		return model.Item{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Item{}, fmt.Errorf("last insert id: %w", err)
	}
	return model.Item{ID: id, Name: name}, nil
}

// Delete removes the row with id. A missing row is not an error.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	return err
}

// List returns every row in insertion order.
func (r *ItemRepo) List(ctx context.Context) ([]model.Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
