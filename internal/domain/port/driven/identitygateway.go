package driven

import (
	"context"
	"errors"

	"github.com/danovak/bookmarkhub/internal/domain/model"
)

// ErrGatewayUnconfigured is returned when gateway-dependent operations run
// without BOOKMARKHUB_GATEWAY_URL and BOOKMARKHUB_GATEWAY_KEY configured.
var ErrGatewayUnconfigured = errors.New("identity gateway not configured: set BOOKMARKHUB_GATEWAY_URL and BOOKMARKHUB_GATEWAY_KEY")

// ErrUnauthenticated is returned when no current user can be resolved for a
// request, either because no session token was presented or because the
// gateway rejected it.
var ErrUnauthenticated = errors.New("not authenticated")

// IdentityGateway defines the driven port for the hosted identity service.
// Authentication is delegated entirely to the gateway: the application never
// mints or validates tokens itself.
type IdentityGateway interface {
	// SignInURL returns the gateway's OAuth authorize URL for the given
	// provider. The gateway redirects back to redirectTo with a ?code=
	// parameter once the provider flow completes.
	SignInURL(provider, redirectTo string) string

	// ExchangeCode exchanges a single-use authorization code for a session.
	// A rejected code returns an error; codes are single-use by the
	// gateway's contract, so callers must not retry.
	ExchangeCode(ctx context.Context, code string) (*model.Session, error)

	// CurrentUser resolves the user owning the given access token.
	// Returns ErrUnauthenticated when the gateway rejects the token.
	CurrentUser(ctx context.Context, accessToken string) (*model.User, error)
}
