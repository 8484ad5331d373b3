package ctxutil

import "context"

type traceDataKey struct{}
type userDataKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

// UserData is the signed-in instructor attached by the auth middleware.
type UserData struct {
	UID           string
	Email         string
	Name          string
	AuthSessionID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(Default(ctx), traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

func WithUserData(ctx context.Context, ud *UserData) context.Context {
	return context.WithValue(Default(ctx), userDataKey{}, ud)
}

func GetUserData(ctx context.Context) *UserData {
	if ctx == nil {
		return nil
	}
	if ud, ok := ctx.Value(userDataKey{}).(*UserData); ok {
		return ud
	}
	return nil
}

func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
