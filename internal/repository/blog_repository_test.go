package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-api/internal/model"
)

func setupBlogMock(t *testing.T) (*BlogRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBlogRepo(db), mock
}

var blogCols = []string{"id", "author_id", "title", "content", "category", "tags", "created_at", "updated_at"}

func TestBlogRepo_Create(t *testing.T) {
	repo, mock := setupBlogMock(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blogs (author_id, title, content, category, tags)")).
		WithArgs(uint64(1), "Hi", "World", "Tech", `["go"]`).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM blogs WHERE id = ?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(blogCols).AddRow(5, 1, "Hi", "World", "Tech", []byte(`["go"]`), now, now))

	b := &model.Blog{AuthorID: 1, Title: "Hi", Content: "World", Category: "Tech", Tags: []string{"go"}}
	require.NoError(t, repo.Create(context.Background(), b))

	assert.EqualValues(t, 5, b.ID)
	assert.Equal(t, []string{"go"}, b.Tags)
	assert.Equal(t, now, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogRepo_Create_NilTagsStoredAsEmptyArray(t *testing.T) {
	repo, mock := setupBlogMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blogs")).
		WithArgs(uint64(1), "T", "C", "Cat", `[]`).
		WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM blogs WHERE id = ?")).
		WithArgs(uint64(6)).
		WillReturnRows(sqlmock.NewRows(blogCols).AddRow(6, 1, "T", "C", "Cat", []byte(`[]`), now, now))

	b := &model.Blog{AuthorID: 1, Title: "T", Content: "C", Category: "Cat"}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.NotNil(t, b.Tags)
	assert.Empty(t, b.Tags)
}

func TestBlogRepo_GetByID_NotFound(t *testing.T) {
	repo, mock := setupBlogMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM blogs WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(blogCols))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestBlogRepo_List(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name   string
		filter BlogFilter
		query  string
		args   []driver.Value
	}{
		{
			name:  "no filter",
			query: "SELECT id, author_id, title, content, category, tags, created_at, updated_at FROM blogs ORDER BY id",
		},
		{
			name:   "category only",
			filter: BlogFilter{Category: "Tech"},
			query:  "FROM blogs WHERE category = ? ORDER BY id",
			args:   []driver.Value{"Tech"},
		},
		{
			name:   "tags only",
			filter: BlogFilter{Tags: []string{"a", "b"}},
			query:  "FROM blogs WHERE JSON_OVERLAPS(tags, CAST(? AS JSON)) ORDER BY id",
			args:   []driver.Value{`["a","b"]`},
		},
		{
			name:   "category and tags",
			filter: BlogFilter{Category: "Tech", Tags: []string{"a", "b"}},
			query:  "FROM blogs WHERE category = ? AND JSON_OVERLAPS(tags, CAST(? AS JSON)) ORDER BY id",
			args:   []driver.Value{"Tech", `["a","b"]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupBlogMock(t)

			exp := mock.ExpectQuery(regexp.QuoteMeta(tt.query))
			if len(tt.args) > 0 {
				exp = exp.WithArgs(tt.args...)
			}
			exp.WillReturnRows(sqlmock.NewRows(blogCols).
				AddRow(1, 1, "A", "a", "Tech", []byte(`["a"]`), now, now).
				AddRow(2, 2, "B", "b", "Tech", []byte(`null`), now, now))

			got, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, []string{"a"}, got[0].Tags)
			assert.Equal(t, []string{}, got[1].Tags)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBlogRepo_List_Empty(t *testing.T) {
	repo, mock := setupBlogMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM blogs")).WillReturnRows(sqlmock.NewRows(blogCols))

	got, err := repo.List(context.Background(), BlogFilter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBlogRepo_Update(t *testing.T) {
	repo, mock := setupBlogMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE blogs")).
		WithArgs("New", "Body", "Life", `["x","y"]`, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &model.Blog{ID: 5, Title: "New", Content: "Body", Category: "Life", Tags: []string{"x", "y"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogRepo_Update_Gone(t *testing.T) {
	repo, mock := setupBlogMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE blogs")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.Blog{ID: 5, Title: "t", Content: "c", Category: "k"})
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestBlogRepo_Delete(t *testing.T) {
	repo, mock := setupBlogMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM blogs WHERE id = ?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 5))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM blogs WHERE id = ?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 5), ErrBlogNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogRepo_Delete_Error(t *testing.T) {
	repo, mock := setupBlogMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM blogs")).
		WillReturnError(errors.New("connection reset"))

	err := repo.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBlogNotFound)
}
