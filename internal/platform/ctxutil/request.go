package ctxutil

import "context"

type requestDataKey struct{}

// RequestData identifies the operator behind a request. It is filled by the
// session middleware and read by request logging.
type RequestData struct {
	UserID    string
	SessionID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}
