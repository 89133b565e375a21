package authmw

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func ctxWithAuth(v string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", v))
}

func passThrough(ctx context.Context, _ interface{}) (interface{}, error) {
	if id, ok := UserIDFromCtx(ctx); ok {
		return id, nil
	}
	return nil, nil
}

func TestInterceptorResolvesBearer(t *testing.T) {
	it := UnaryAuthInterceptor(func(_ context.Context, token string) (int64, error) {
		require.Equal(t, "tok-123", token)
		return 42, nil
	}, nil)

	resp, err := it(ctxWithAuth("Bearer tok-123"), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, passThrough)
	require.NoError(t, err)
	require.Equal(t, int64(42), resp)
}

func TestInterceptorRejectsMissingToken(t *testing.T) {
	it := UnaryAuthInterceptor(func(context.Context, string) (int64, error) {
		t.Fatal("parse should not run")
		return 0, nil
	}, nil)

	for _, ctx := range []context.Context{
		context.Background(),
		ctxWithAuth("Basic abc"),
		ctxWithAuth(""),
	} {
		_, err := it(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, passThrough)
		require.Equal(t, codes.Unauthenticated, status.Code(err))
	}
}

func TestInterceptorRejectsBadToken(t *testing.T) {
	it := UnaryAuthInterceptor(func(context.Context, string) (int64, error) {
		return 0, errors.New("nope")
	}, nil)

	_, err := it(ctxWithAuth("Bearer bad"), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, passThrough)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestInterceptorSkipsPublicMethods(t *testing.T) {
	public := map[string]bool{"/grpc.health.v1.Health/Check": true}
	it := UnaryAuthInterceptor(func(context.Context, string) (int64, error) {
		t.Fatal("parse should not run")
		return 0, nil
	}, public)

	_, err := it(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, passThrough)
	require.NoError(t, err)
}

func TestOptionalInterceptorNeverRejects(t *testing.T) {
	it := UnaryOptionalAuthInterceptor(func(_ context.Context, token string) (int64, bool) {
		if token == "good" {
			return 7, true
		}
		return 0, false
	})

	resp, err := it(ctxWithAuth("Bearer good"), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, passThrough)
	require.NoError(t, err)
	require.Equal(t, int64(7), resp)

	resp, err = it(ctxWithAuth("Bearer bad"), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, passThrough)
	require.NoError(t, err)
	require.Nil(t, resp)

	resp, err = it(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, passThrough)
	require.NoError(t, err)
	require.Nil(t, resp)
}
