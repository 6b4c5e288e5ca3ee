package requestdata

import (
	"context"
)

var requestDataKey = struct{}{}

// RequestData carries the authenticated identity attached by the auth
// middleware for the lifetime of one request.
type RequestData struct {
	TokenString string
	UserID      int64
	Email       string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}
