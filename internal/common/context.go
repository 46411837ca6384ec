// Package common holds request scoped values shared by the server and the
// session client.
package common

import (
	"context"
)

type ClientId string

type ctxClientIdKeyType string

const ctxClientIdKey ctxClientIdKeyType = "HatchWorkbenchClientId"

// SetClientIdInContext records which front end issued the request.
func SetClientIdInContext(ctx context.Context, clientId ClientId) context.Context {
	return context.WithValue(ctx, ctxClientIdKey, clientId)
}

// ClientIdFromContext retrieves the client ID from the provided context.
func ClientIdFromContext(ctx context.Context) ClientId {
	if clientId, ok := ctx.Value(ctxClientIdKey).(ClientId); ok {
		return clientId
	}
	return ""
}
