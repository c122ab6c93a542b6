// Package client talks to a tablero server over HTTP and satisfies board.Store
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/order"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Client is an HTTP implementation of board.Store
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL (e.g. http://127.0.0.1:7420)
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListColumns(ctx context.Context) ([]models.Column, error) {
	var cols []models.Column
	if err := c.do(ctx, http.MethodGet, "/columns", nil, &cols); err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return cols, nil
}

func (c *Client) ListCards(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	if err := c.do(ctx, http.MethodGet, "/cards", nil, &cards); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

func (c *Client) GetCardsOrder(ctx context.Context) (order.Relation, error) {
	rel := order.Relation{}
	if err := c.do(ctx, http.MethodGet, "/cardsOrder", nil, &rel); err != nil {
		return nil, fmt.Errorf("failed to get cards order: %w", err)
	}
	return rel, nil
}

func (c *Client) CreateCard(ctx context.Context, card models.Card) error {
	if err := c.do(ctx, http.MethodPost, "/cards", card, nil); err != nil {
		return fmt.Errorf("failed to create card %s: %w", card.ID, err)
	}
	return nil
}

func (c *Client) DeleteCard(ctx context.Context, id types.ItemID) error {
	if err := c.do(ctx, http.MethodDelete, "/cards/"+url.PathEscape(string(id)), nil, nil); err != nil {
		return fmt.Errorf("failed to delete card %s: %w", id, err)
	}
	return nil
}

func (c *Client) PatchCardsOrder(ctx context.Context, patch order.Patch) error {
	if err := c.do(ctx, http.MethodPatch, "/cardsOrder", patch, nil); err != nil {
		return fmt.Errorf("failed to patch cards order: %w", err)
	}
	return nil
}

// do sends body as JSON and decodes the response into out when out is non-nil
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
