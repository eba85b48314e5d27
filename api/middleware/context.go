package middleware

import "context"

type contextKey string

const ctxMemberToken contextKey = "member_token"

// MemberTokenFromContext returns the raw bearer token of the signed-in
// member, or "" when the request is anonymous.
func MemberTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxMemberToken).(string); ok {
		return v
	}
	return ""
}

// WithMemberToken injects the member's bearer token into the context.
func WithMemberToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxMemberToken, token)
}
