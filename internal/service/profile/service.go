// Package profile wires the profile core to its collaborators: the identity
// service that names the caller and the store that holds profiles and
// listings. Store implementations live alongside: Firestore, PostgreSQL and
// an in-memory store for tests and local runs.
package profile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MitroiBogdan/NEXAR/internal/platform/logging"
	"github.com/MitroiBogdan/NEXAR/internal/platform/metrics"
	core "github.com/MitroiBogdan/NEXAR/internal/profile"
)

// IdentityService reports who is calling. An anonymous caller is nil, nil.
type IdentityService interface {
	CurrentIdentity(ctx context.Context) (*core.Identity, error)
}

// Store persists profiles and exposes listing snapshots.
//
// GetProfile returns core.ErrNotFound for unknown keys. ListListingsBySeller
// returns the seller's listings newest first. UpdateProfile overwrites exactly
// the five editable fields of the profile owned by ownerID, bumps UpdatedAt
// and returns the stored record; failures are *core.StoreError.
type Store interface {
	GetProfile(ctx context.Context, key core.LookupKey) (*core.Profile, error)
	ListListingsBySeller(ctx context.Context, profileID string) ([]core.ListingSummary, error)
	UpdateProfile(ctx context.Context, ownerID string, fields core.Fields) (*core.Profile, error)
}

// User-facing messages of store failures. Driver details stay in the wrapped
// error.
const (
	msgLoadFailed = "could not load the profile, try again later"
	msgSaveFailed = "could not save the profile, try again later"
)

// OutcomeHook receives every resolved edit submit.
type OutcomeHook func(ctx context.Context, out core.Outcome)

// Changes is a partial edit. Nil fields keep their committed value.
type Changes struct {
	Name        *string
	Phone       *string
	Location    *string
	Description *string
	Website     *string
}

func (c Changes) get(field string) *string {
	switch field {
	case core.FieldName:
		return c.Name
	case core.FieldPhone:
		return c.Phone
	case core.FieldLocation:
		return c.Location
	case core.FieldDescription:
		return c.Description
	case core.FieldWebsite:
		return c.Website
	}
	return nil
}

// Empty reports whether no field is set.
func (c Changes) Empty() bool {
	for _, f := range core.EditableFields {
		if c.get(f) != nil {
			return false
		}
	}
	return true
}

// NameCache stores owners' display names outside the profile store.
type NameCache interface {
	DisplayName(ctx context.Context, ownerID string) (string, bool, error)
	Set(ctx context.Context, ownerID, name string) error
	OnOutcome(ctx context.Context, out core.Outcome)
}

// Service loads profile pages and applies owner edits.
type Service struct {
	store    Store
	identity IdentityService
	names    NameCache
	hooks    []OutcomeHook
}

// Option configures a Service.
type Option func(*Service)

// WithOutcomeHook registers fn for every edit outcome, after the built-in
// metrics and audit logging.
func WithOutcomeHook(fn OutcomeHook) Option {
	return func(s *Service) {
		s.hooks = append(s.hooks, fn)
	}
}

// WithNameCache keeps c current on every saved edit and serves DisplayName
// from it.
func WithNameCache(c NameCache) Option {
	return func(s *Service) {
		s.names = c
		s.hooks = append(s.hooks, c.OnOutcome)
	}
}

func NewService(store Store, identity IdentityService, opts ...Option) *Service {
	s := &Service{store: store, identity: identity}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load resolves the requested profile (empty requestedID means the caller's
// own), and assembles its page view with statistics over the seller's
// listings.
func (s *Service) Load(ctx context.Context, requestedID string) (*core.View, error) {
	view, err := s.load(ctx, requestedID)
	metrics.LoadsTotal.WithLabelValues(loadResult(err)).Inc()
	if err != nil {
		return nil, err
	}
	metrics.ListingsAggregated.Observe(float64(len(view.Listings)))
	return view, nil
}

func (s *Service) load(ctx context.Context, requestedID string) (*core.View, error) {
	p, isOwner, err := s.resolveProfile(ctx, requestedID)
	if err != nil {
		return nil, err
	}
	listings, err := s.store.ListListingsBySeller(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list listings of %s: %w", p.ID, err)
	}
	logging.LoggerFromContext(ctx).Debug("profile loaded",
		zap.String("profileId", p.ID), zap.Bool("isOwner", isOwner), zap.Int("listings", len(listings)))
	return &core.View{
		Profile:  p,
		Stats:    core.Aggregate(listings),
		Listings: listings,
		IsOwner:  isOwner,
	}, nil
}

// resolveProfile finds the addressed profile. A profile opened by id is still
// owned when its OwnerID is the caller.
func (s *Service) resolveProfile(ctx context.Context, requestedID string) (*core.Profile, bool, error) {
	caller, err := s.identity.CurrentIdentity(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("current identity: %w", err)
	}
	target, err := core.Resolve(requestedID, caller)
	if err != nil {
		return nil, false, err
	}
	p, err := s.store.GetProfile(ctx, target.Key)
	if err != nil {
		return nil, false, err
	}
	isOwner := target.IsOwner || (caller != nil && caller.ID != "" && p.OwnerID == caller.ID)
	return p, isOwner, nil
}

// OpenSession starts an edit session on a loaded view. Outcomes are reported
// to metrics, the audit log and the registered hooks.
func (s *Service) OpenSession(ctx context.Context, view *core.View) *core.Session {
	var committed *core.Profile
	isOwner := false
	if view != nil {
		committed, isOwner = view.Profile, view.IsOwner
	}
	session := core.NewSession(committed, isOwner)
	profileID := ""
	if committed != nil {
		profileID = committed.ID
	}
	session.Subscribe(func(out core.Outcome) {
		s.observe(ctx, profileID, out)
	})
	return session
}

// Edit applies changes to the caller's own profile in one session:
// load, edit the given fields, submit. It returns the stored profile, a
// *core.ValidationError or a *core.StoreError.
func (s *Service) Edit(ctx context.Context, changes Changes) (*core.Profile, error) {
	p, isOwner, err := s.resolveProfile(ctx, "")
	if err != nil {
		return nil, err
	}

	session := s.OpenSession(ctx, &core.View{Profile: p, IsOwner: isOwner})
	if err := session.StartEdit(); err != nil {
		return nil, err
	}
	for _, field := range core.EditableFields {
		if v := changes.get(field); v != nil {
			if err := session.ChangeField(field, *v); err != nil {
				return nil, err
			}
		}
	}
	return session.Submit(ctx, s.store)
}

// Listings returns the listing snapshot of an existing profile, newest first.
func (s *Service) Listings(ctx context.Context, profileID string) ([]core.ListingSummary, error) {
	p, err := s.store.GetProfile(ctx, core.LookupKey{By: core.ByID, Value: profileID})
	if err != nil {
		return nil, err
	}
	return s.store.ListListingsBySeller(ctx, p.ID)
}

// DisplayName returns the caller's display name, from the name cache when
// possible. A miss is filled from the store.
func (s *Service) DisplayName(ctx context.Context) (string, error) {
	caller, err := s.identity.CurrentIdentity(ctx)
	if err != nil {
		return "", fmt.Errorf("current identity: %w", err)
	}
	if caller == nil || caller.ID == "" {
		return "", core.ErrNotAuthenticated
	}
	if s.names != nil {
		name, ok, err := s.names.DisplayName(ctx, caller.ID)
		if err != nil {
			logging.LogWarn(ctx, "display name cache read failed", zap.Error(err))
		}
		if ok {
			return name, nil
		}
	}

	p, err := s.store.GetProfile(ctx, core.LookupKey{By: core.ByOwnerID, Value: caller.ID})
	if err != nil {
		return "", err
	}
	if s.names != nil {
		if err := s.names.Set(ctx, caller.ID, p.Name); err != nil {
			logging.LogWarn(ctx, "display name cache write failed", zap.Error(err))
		}
	}
	return p.Name, nil
}

func (s *Service) observe(ctx context.Context, profileID string, out core.Outcome) {
	metrics.EditsTotal.WithLabelValues(string(out.Kind)).Inc()
	switch out.Kind {
	case core.OutcomeInvalid:
		for _, f := range out.Errors.Fields() {
			metrics.ValidationFailuresTotal.WithLabelValues(f).Inc()
		}
		logging.LogInfo(ctx, "profile edit rejected", zap.Strings("fields", out.Errors.Fields()))
	case core.OutcomeSaved:
		logging.LogAuditEvent(ctx, "update", out.OwnerID, "profile", profileID, "success", nil)
	case core.OutcomeFailed:
		logging.LogAuditEvent(ctx, "update", out.OwnerID, "profile", profileID, "failure",
			map[string]any{"error": "store_error"})
	}
	for _, hook := range s.hooks {
		hook(ctx, out)
	}
}

func loadResult(err error) string {
	var se *core.StoreError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, core.ErrNotFound):
		return "not_found"
	case errors.Is(err, core.ErrNotAuthenticated):
		return "not_authenticated"
	case errors.As(err, &se):
		return "store_error"
	default:
		return "error"
	}
}
