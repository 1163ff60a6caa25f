package sessionctx

import (
	"context"
	"net/http"

	"github.com/camisetia/storefront/api/middleware"
	"github.com/camisetia/storefront/internal/session"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
)

// Resolver hands out the workspace of a storefront session.
type Resolver interface {
	Get(ctx context.Context, sessionID string) (*session.Workspace, error)
}

// ResolveWorkspace loads the workspace of the session bound to r by the
// session middleware.
func ResolveWorkspace(r *http.Request, resolver Resolver) (*session.Workspace, error) {
	if resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable")
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session context required")
	}
	ws, err := resolver.Get(r.Context(), sessionID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session workspace")
	}
	return ws, nil
}
