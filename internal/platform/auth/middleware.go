package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/MitroiBogdan/NEXAR/internal/platform/logging"
	"github.com/MitroiBogdan/NEXAR/internal/profile"
)

// MetadataOptional marks an operation that serves anonymous callers but
// identifies the caller when a token is sent. Set it in Operation.Metadata.
const MetadataOptional = "authOptional"

type identityContextKey struct{}

// NewAuthMiddleware authenticates operations that declare a Security
// requirement or carry MetadataOptional. A bad token is always rejected; a
// missing one only when the operation requires it.
func NewAuthMiddleware(api huma.API, verifier Verifier) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		required := len(op.Security) > 0
		optional, _ := op.Metadata[MetadataOptional].(bool)
		if !required && !optional {
			next(ctx)
			return
		}

		header := ctx.Header("Authorization")
		if header == "" && !required {
			next(ctx)
			return
		}

		token, err := ExtractBearerToken(header)
		if err != nil {
			logging.LogWarn(ctx.Context(), "auth failed: missing or invalid header",
				zap.String("reason", categorizeAuthError(err)))
			ctx.SetHeader("WWW-Authenticate", "Bearer")
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		id, err := verifier.Verify(ctx.Context(), token)
		if err == nil && (id == nil || id.ID == "") {
			err = ErrInvalidToken
		}
		if err != nil {
			logging.LogWarn(ctx.Context(), "auth failed: token verification failed",
				zap.String("reason", categorizeAuthError(err)))
			if errors.Is(err, ErrCertificateFetch) {
				ctx.SetHeader("Retry-After", "30")
				_ = huma.WriteErr(api, ctx, http.StatusServiceUnavailable,
					"authentication service temporarily unavailable")
				return
			}
			ctx.SetHeader("WWW-Authenticate", "Bearer")
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next(huma.WithValue(ctx, identityContextKey{}, id))
	}
}

func categorizeAuthError(err error) string {
	switch {
	case errors.Is(err, ErrNoToken):
		return "no_token"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrTokenRevoked):
		return "token_revoked"
	case errors.Is(err, ErrUserDisabled):
		return "user_disabled"
	case errors.Is(err, ErrCertificateFetch):
		return "certificate_fetch_failed"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	default:
		return "unknown"
	}
}

// IdentityFromContext returns the authenticated caller, or nil.
func IdentityFromContext(ctx context.Context) *profile.Identity {
	id, _ := ctx.Value(identityContextKey{}).(*profile.Identity)
	return id
}

// WithIdentity returns a context carrying id, as the middleware would.
func WithIdentity(ctx context.Context, id *profile.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// ContextIdentity reads the caller placed in the request context by
// NewAuthMiddleware. Anonymous requests yield nil, nil.
type ContextIdentity struct{}

func (ContextIdentity) CurrentIdentity(ctx context.Context) (*profile.Identity, error) {
	return IdentityFromContext(ctx), nil
}
