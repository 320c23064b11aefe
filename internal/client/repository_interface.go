package client

import "context"

type Repository interface {
	// Create returns false when the cedula is already registered.
	Create(ctx context.Context, c *Client) (bool, error)
	Update(ctx context.Context, c *Client) (bool, error)
	GetByCedula(ctx context.Context, cedula string) (*Client, error)
	List(ctx context.Context) ([]Client, error)
	Delete(ctx context.Context, cedula string) (bool, error)
	Exists(ctx context.Context, cedula string) (bool, error)
	Search(ctx context.Context, criteria Criteria) ([]SearchRow, error)
}
