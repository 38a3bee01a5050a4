package profile

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/MitroiBogdan/NEXAR/internal/platform/auth"
	"github.com/MitroiBogdan/NEXAR/internal/platform/pagination"
	"github.com/MitroiBogdan/NEXAR/internal/platform/timeutil"
	core "github.com/MitroiBogdan/NEXAR/internal/profile"
	profilesvc "github.com/MitroiBogdan/NEXAR/internal/service/profile"
)

const listingCursorKind = "listing"

// Service is what the handlers need from the profile service.
type Service interface {
	Load(ctx context.Context, requestedID string) (*core.View, error)
	Edit(ctx context.Context, changes profilesvc.Changes) (*core.Profile, error)
	Listings(ctx context.Context, profileID string) ([]core.ListingSummary, error)
	DisplayName(ctx context.Context) (string, error)
}

// Register registers profile endpoints.
func Register(api huma.API, svc Service, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "get-own-profile",
		Method:      http.MethodGet,
		Path:        "/profile",
		Summary:     "Get current user's profile page",
		Description: "Returns the signed-in user's profile with listing statistics.",
		Tags:        []string{"Profile"},
		Metadata:    map[string]any{auth.MetadataOptional: true},
	}, func(ctx context.Context, _ *ProfileGetInput) (*ProfileViewOutput, error) {
		view, err := svc.Load(ctx, "")
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &ProfileViewOutput{Body: toHTTPView(view)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/profiles/{id}",
		Summary:     "Get a profile page",
		Description: "Returns any profile with its listing statistics. isOwner is true when the caller owns it.",
		Tags:        []string{"Profile"},
		Metadata:    map[string]any{auth.MetadataOptional: true},
	}, func(ctx context.Context, input *ProfileByIDInput) (*ProfileViewOutput, error) {
		view, err := svc.Load(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &ProfileViewOutput{Body: toHTTPView(view)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-profile-listings",
		Method:      http.MethodGet,
		Path:        "/profiles/{id}/listings",
		Summary:     "List a seller's listings",
		Description: "Returns the listings counted in the profile statistics, newest first. Use the cursor from the Link header to navigate between pages.",
		Tags:        []string{"Profile"},
	}, func(ctx context.Context, input *ListingsInput) (*ListingsOutput, error) {
		cursor, err := pagination.DecodeCursor(input.Cursor, listingCursorKind)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid cursor format")
		}

		listings, err := svc.Listings(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(err)
		}

		limit := input.PageSize()
		page := pagination.Paginate(listings, cursor, limit, func(l core.ListingSummary) string { return l.ID })
		return &ListingsOutput{
			Link: pagination.LinkHeader(prefix+"/profiles/"+url.PathEscape(input.ID)+"/listings", nil, limit, page),
			Body: ListingsData{
				Items: toHTTPListings(page.Items),
				Total: page.Total,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-profile",
		Method:      http.MethodPatch,
		Path:        "/profile",
		Summary:     "Update current user's profile",
		Description: "Sanitizes and validates the editable fields and saves them. Only provided fields change; " +
			"validation failures name every failing field.",
		Tags: []string{"Profile"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *ProfileUpdateInput) (*ProfileUpdateOutput, error) {
		changes := profilesvc.Changes{
			Name:        input.Body.Name,
			Phone:       input.Body.Phone,
			Location:    input.Body.Location,
			Description: input.Body.Description,
			Website:     input.Body.Website,
		}
		if changes.Empty() {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}

		p, err := svc.Edit(ctx, changes)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &ProfileUpdateOutput{Body: toHTTPProfile(p, true)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-display-name",
		Method:      http.MethodGet,
		Path:        "/profile/display-name",
		Summary:     "Get current user's display name",
		Tags:        []string{"Profile"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, _ *DisplayNameInput) (*DisplayNameOutput, error) {
		name, err := svc.DisplayName(ctx)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &DisplayNameOutput{}
		out.Body.DisplayName = name
		return out, nil
	})
}

func mapServiceError(err error) error {
	var (
		validationErr *core.ValidationError
		storeErr      *core.StoreError
	)
	switch {
	case errors.As(err, &validationErr):
		details := make([]error, 0, len(validationErr.Errors))
		for _, field := range validationErr.Errors.Fields() {
			details = append(details, &huma.ErrorDetail{
				Message:  validationErr.Errors[field],
				Location: "body." + field,
			})
		}
		return huma.Error422UnprocessableEntity("validation failed", details...)
	case errors.Is(err, core.ErrNotAuthenticated):
		headers := make(http.Header)
		headers.Set("WWW-Authenticate", "Bearer")
		return huma.ErrorWithHeaders(huma.Error401Unauthorized("authentication required"), headers)
	case errors.Is(err, core.ErrNotFound):
		return huma.Error404NotFound("profile not found")
	case errors.Is(err, core.ErrNotOwner):
		return huma.Error403Forbidden("only the owner can edit this profile")
	case errors.Is(err, core.ErrSubmitInFlight):
		return huma.Error409Conflict("a save is already in progress")
	case errors.As(err, &storeErr):
		return huma.Error502BadGateway(storeErr.Message)
	default:
		return huma.Error500InternalServerError("internal error")
	}
}

func toHTTPView(v *core.View) ProfileView {
	return ProfileView{
		Profile: toHTTPProfile(v.Profile, v.IsOwner),
		Stats: Stats{
			ActiveListings: v.Stats.ActiveListings,
			SoldListings:   v.Stats.SoldListings,
			TotalViews:     v.Stats.TotalViews,
			TotalFavorites: v.Stats.TotalFavorites,
		},
		IsOwner: v.IsOwner,
	}
}

func toHTTPProfile(p *core.Profile, owner bool) Profile {
	out := Profile{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Phone:       p.Phone,
		Location:    p.Location,
		Description: p.Description,
		Website:     p.Website,
		Verified:    p.Verified,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		CreatedAt:   timeutil.Time{Time: p.CreatedAt},
		UpdatedAt:   timeutil.Time{Time: p.UpdatedAt},
	}
	if owner {
		out.Email = p.Email
	}
	return out
}

func toHTTPListings(listings []core.ListingSummary) []Listing {
	result := make([]Listing, len(listings))
	for i, l := range listings {
		result[i] = Listing{
			ID:            l.ID,
			Status:        string(l.Status),
			ViewCount:     l.ViewCount,
			FavoriteCount: l.FavoriteCount,
			CreatedAt:     timeutil.Time{Time: l.CreatedAt},
		}
	}
	return result
}
