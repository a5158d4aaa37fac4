package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/blog-api/internal/model"
)

// BlogFilter narrows List.  Category must match exactly; a blog matches
// Tags when at least one of its tags is in the set.  Zero values impose no
// constraint and both filters are AND'd together.
type BlogFilter struct {
	Category string
	Tags     []string
}

// BlogRepo encapsulates all database queries related to blogs.  Tags are
// stored as a JSON array so their order survives a round trip.
type BlogRepo struct {
	db *sql.DB
}

func NewBlogRepo(db *sql.DB) *BlogRepo {
	return &BlogRepo{db: db}
}

const blogColumns = "id, author_id, title, content, category, tags, created_at, updated_at"

// Create inserts b and populates its ID and timestamps from the stored row.
func (r *BlogRepo) Create(ctx context.Context, b *model.Blog) error {
	tags, err := encodeTags(b.Tags)
	if err != nil {
		return err
	}
	const qInsert = "INSERT INTO blogs (author_id, title, content, category, tags) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, b.AuthorID, b.Title, b.Content, b.Category, tags)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*b = *stored
	return nil
}

// GetByID fetches a blog by id.  It returns ErrBlogNotFound if no row is found.
func (r *BlogRepo) GetByID(ctx context.Context, id uint64) (*model.Blog, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+blogColumns+" FROM blogs WHERE id = ?", id)
	b, err := scanBlog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return b, nil
}

// List returns the blogs matching f in id order.
func (r *BlogRepo) List(ctx context.Context, f BlogFilter) ([]*model.Blog, error) {
	where := []string{}
	args := []any{}

	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if len(f.Tags) > 0 {
		tags, err := encodeTags(f.Tags)
		if err != nil {
			return nil, err
		}
		where = append(where, "JSON_OVERLAPS(tags, CAST(? AS JSON))")
		args = append(args, tags)
	}

	q := "SELECT " + blogColumns + " FROM blogs"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces title, content, category and tags of the blog with b.ID.
// The author is never touched.  ErrBlogNotFound means the row is gone.
func (r *BlogRepo) Update(ctx context.Context, b *model.Blog) error {
	tags, err := encodeTags(b.Tags)
	if err != nil {
		return err
	}
	const q = `UPDATE blogs
	           SET title = ?, content = ?, category = ?, tags = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.Title, b.Content, b.Category, tags, b.ID)
	if err != nil {
		return err
	}
	// The DSN sets clientFoundRows, so an unchanged row still counts.
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// Delete removes the blog with id.
func (r *BlogRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM blogs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBlogNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(s rowScanner) (*model.Blog, error) {
	var (
		b    model.Blog
		tags []byte
	)
	if err := s.Scan(&b.ID, &b.AuthorID, &b.Title, &b.Content, &b.Category, &tags, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &b.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of blog %d: %w", b.ID, err)
		}
		if b.Tags == nil {
			b.Tags = []string{}
		}
	}
	return &b, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(raw), nil
}
