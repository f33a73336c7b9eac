package gateway

import (
	"context"

	"github.com/grovetools/cellconsole/pkg/models"
)

// Users calls GET auth/users.
func (c *Client) Users(ctx context.Context) (models.UsersResponse, error) {
	var out models.UsersResponse
	err := c.get(ctx, "auth/users", &out)
	return out, err
}
