package authmw

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey int

const userIDKey ctxKey = 1

func UserIDFromCtx(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// ParseFunc resolves a raw bearer token to a user id. Validation hits the
// denylist, hence the context.
type ParseFunc func(ctx context.Context, token string) (int64, error)

// TryParseFunc is the non-failing variant used for endpoints that work both
// with and without a caller identity.
type TryParseFunc func(ctx context.Context, token string) (int64, bool)

// UnaryAuthInterceptor rejects requests to non-public methods that carry no
// valid bearer token, and stashes the resolved user id in the context.
func UnaryAuthInterceptor(parse ParseFunc, public map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (interface{}, error) {
		if public[info.FullMethod] {
			return next(ctx, req)
		}

		token := bearer(ctx)
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		uid, err := parse(ctx, token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}
		ctx = context.WithValue(ctx, userIDKey, uid)
		return next(ctx, req)
	}
}

// UnaryOptionalAuthInterceptor never rejects: when a valid token is present
// the user id lands in the context, otherwise the request proceeds anonymous.
func UnaryOptionalAuthInterceptor(tryParse TryParseFunc) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (interface{}, error) {
		if token := bearer(ctx); token != "" {
			if uid, ok := tryParse(ctx, token); ok {
				ctx = context.WithValue(ctx, userIDKey, uid)
			}
		}
		return next(ctx, req)
	}
}

func bearer(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get("authorization"); len(vals) > 0 {
			v := vals[0]
			if strings.HasPrefix(v, "Bearer ") {
				return strings.TrimPrefix(v, "Bearer ")
			}
		}
	}
	return ""
}
