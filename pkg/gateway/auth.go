package gateway

import (
	"context"
	"errors"
	"net/http"

	"ticketdesk/pkg/model"
)

// Login exchanges a username and password for a credential. A 403 from the
// server is reported as ErrInvalidCredentials; anything else is returned as
// is (usually an *APIError carrying the server's message).
func (c *Client) Login(ctx context.Context, username, password string) (model.Credential, error) {
	var cred credentialWire
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginWire{Username: username, Password: password}, &cred)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
			return model.Credential{}, ErrInvalidCredentials
		}
		return model.Credential{}, err
	}
	return cred.toModel(), nil
}
