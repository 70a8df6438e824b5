package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

const commentColumns = `id, item_id, author_id, author_name, text, created_at`

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (item_id, author_id, author_name, text, created_at)
              VALUES (?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		comment.ItemID, comment.AuthorID, comment.AuthorName, comment.Text, now)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	comment.CreatedAt = now
	return nil
}

func (db *DB) GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE item_id = ? ORDER BY id ASC`
	return db.queryComments(ctx, query, itemID)
}

func (db *DB) GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + commentColumns + ` FROM comments WHERE item_id IN (` +
		placeholders(len(itemIDs)) + `) ORDER BY id ASC`
	args := make([]any, len(itemIDs))
	for i, id := range itemIDs {
		args[i] = id
	}
	return db.queryComments(ctx, query, args...)
}

func (db *DB) queryComments(ctx context.Context, query string, args ...any) ([]*models.Comment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
