package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// BookRecord is a catalog item. ID is assigned by the API.
type BookRecord struct {
	ID     int64   `json:"id,omitempty"`
	Title  string  `json:"title" validate:"required"`
	Author string  `json:"author" validate:"required"`
	Price  float64 `json:"price" validate:"gte=0.01"`
	Stock  int     `json:"stock" validate:"gte=0"`
}

func (b BookRecord) normalized() BookRecord {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	return b
}

// ListBooks returns the whole catalog
func (c *Client) ListBooks(ctx context.Context) ([]BookRecord, error) {
	return c.getBooks(ctx, "/api/books", "list books")
}

// SearchBooks returns books whose title or author matches term. A blank term
// lists the whole catalog.
func (c *Client) SearchBooks(ctx context.Context, term string) ([]BookRecord, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return c.ListBooks(ctx)
	}
	query := url.Values{"query": []string{term}}
	return c.getBooks(ctx, "/api/books/search?"+query.Encode(), "search books")
}

// CreateBook adds a book. The API may answer with an empty body, in which
// case the returned record is nil.
func (c *Client) CreateBook(ctx context.Context, book BookRecord) (*BookRecord, error) {
	book = book.normalized()
	book.ID = 0
	if err := c.validateRequest(book); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/books", book)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, newAPIError("create book", resp)
	}
	return decodeOptionalBook(resp)
}

// UpdateBook replaces the fields of book id
func (c *Client) UpdateBook(ctx context.Context, id int64, book BookRecord) (*BookRecord, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrValidation)
	}
	book = book.normalized()
	book.ID = id
	if err := c.validateRequest(book); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/books/%d", id), book)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, newAPIError("update book", resp)
	}
	return decodeOptionalBook(resp)
}

// DeleteBook deletes a book by ID
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrValidation)
	}

	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/books/%d", id), nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return newAPIError("delete book", resp)
	}
	return nil
}

func (c *Client) getBooks(ctx context.Context, path, op string) ([]BookRecord, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, newAPIError(op, resp)
	}

	books := []BookRecord{}
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return books, nil
	}
	if err := json.Unmarshal(resp.Body, &books); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return books, nil
}

func decodeOptionalBook(resp *response) (*BookRecord, error) {
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return nil, nil
	}
	var book BookRecord
	if err := json.Unmarshal(resp.Body, &book); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &book, nil
}
