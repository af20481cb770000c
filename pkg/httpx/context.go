package httpx

import (
	"context"

	"github.com/atriumhq/atrium/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyIdentityID ctxKey = "identity_id"
	CtxKeyIdentity   ctxKey = "identity" // full jwtx.Claims if a handler needs email/name
)

// IdentityIDFromCtx returns the authenticated identity id, or "".
func IdentityIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyIdentityID).(string); ok {
		return v
	}
	return ""
}

// ClaimsFromCtx returns the verified token claims, if any.
func ClaimsFromCtx(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyIdentity).(jwtx.Claims)
	return c, ok
}
