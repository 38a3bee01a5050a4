package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	core "github.com/MitroiBogdan/NEXAR/internal/profile"
)

const (
	profilesCollection = "profiles"
	listingsCollection = "listings"
)

// firestoreProfile maps a document of the profiles collection. The document
// id is the profile id.
type firestoreProfile struct {
	OwnerID     string    `firestore:"owner_id"`
	Name        string    `firestore:"name"`
	Email       string    `firestore:"email"`
	Phone       string    `firestore:"phone"`
	Location    string    `firestore:"location"`
	Description string    `firestore:"description"`
	Website     string    `firestore:"website"`
	Verified    bool      `firestore:"verified"`
	Rating      float64   `firestore:"rating"`
	ReviewCount int       `firestore:"review_count"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func (fp firestoreProfile) toProfile(id string) *core.Profile {
	return &core.Profile{
		ID:          id,
		OwnerID:     fp.OwnerID,
		Name:        fp.Name,
		Email:       fp.Email,
		Phone:       fp.Phone,
		Location:    fp.Location,
		Description: fp.Description,
		Website:     fp.Website,
		Verified:    fp.Verified,
		Rating:      fp.Rating,
		ReviewCount: fp.ReviewCount,
		CreatedAt:   fp.CreatedAt,
		UpdatedAt:   fp.UpdatedAt,
	}
}

// firestoreListing maps a document of the listings collection.
type firestoreListing struct {
	SellerID      string    `firestore:"seller_id"`
	Status        string    `firestore:"status"`
	ViewCount     int       `firestore:"view_count"`
	FavoriteCount int       `firestore:"favorite_count"`
	CreatedAt     time.Time `firestore:"created_at"`
}

// FirestoreStore implements Store on Firestore.
type FirestoreStore struct {
	client *firestore.Client
	now    func() time.Time
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client, now: func() time.Time { return time.Now().UTC() }}
}

func (s *FirestoreStore) GetProfile(ctx context.Context, key core.LookupKey) (*core.Profile, error) {
	var (
		doc *firestore.DocumentSnapshot
		err error
	)
	switch key.By {
	case core.ByID:
		doc, err = s.client.Collection(profilesCollection).Doc(key.Value).Get(ctx)
	case core.ByOwnerID:
		doc, err = s.firstByOwner(ctx, nil, key.Value)
	default:
		return nil, fmt.Errorf("unsupported lookup field %q", key.By)
	}
	if err != nil {
		if errors.Is(err, core.ErrNotFound) || status.Code(err) == codes.NotFound {
			return nil, core.ErrNotFound
		}
		return nil, &core.StoreError{Message: msgLoadFailed, Err: fmt.Errorf("get profile: %w", err)}
	}

	var fp firestoreProfile
	if err := doc.DataTo(&fp); err != nil {
		return nil, &core.StoreError{Message: msgLoadFailed, Err: fmt.Errorf("decode profile: %w", err)}
	}
	return fp.toProfile(doc.Ref.ID), nil
}

// firstByOwner returns the profile document owned by ownerID, inside tx when
// one is given.
func (s *FirestoreStore) firstByOwner(ctx context.Context, tx *firestore.Transaction, ownerID string) (*firestore.DocumentSnapshot, error) {
	q := s.client.Collection(profilesCollection).Where("owner_id", "==", ownerID).Limit(1)
	var it *firestore.DocumentIterator
	if tx != nil {
		it = tx.Documents(q)
	} else {
		it = q.Documents(ctx)
	}
	defer it.Stop()

	doc, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return nil, core.ErrNotFound
	}
	return doc, err
}

func (s *FirestoreStore) ListListingsBySeller(ctx context.Context, profileID string) ([]core.ListingSummary, error) {
	it := s.client.Collection(listingsCollection).
		Where("seller_id", "==", profileID).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer it.Stop()

	var out []core.ListingSummary
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, &core.StoreError{Message: msgLoadFailed, Err: fmt.Errorf("list listings: %w", err)}
		}
		var fl firestoreListing
		if err := doc.DataTo(&fl); err != nil {
			return nil, &core.StoreError{Message: msgLoadFailed, Err: fmt.Errorf("decode listing %s: %w", doc.Ref.ID, err)}
		}
		out = append(out, core.ListingSummary{
			ID:            doc.Ref.ID,
			Status:        core.ListingStatus(fl.Status),
			ViewCount:     fl.ViewCount,
			FavoriteCount: fl.FavoriteCount,
			CreatedAt:     fl.CreatedAt,
		})
	}
}

// UpdateProfile updates only the editable fields and updated_at in a
// transaction, so concurrent writes to other fields are never lost.
func (s *FirestoreStore) UpdateProfile(ctx context.Context, ownerID string, f core.Fields) (*core.Profile, error) {
	var result *core.Profile
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := s.firstByOwner(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		var fp firestoreProfile
		if err := doc.DataTo(&fp); err != nil {
			return err
		}

		fp.Name = f.Name
		fp.Phone = f.Phone
		fp.Location = f.Location
		fp.Description = f.Description
		fp.Website = f.Website
		fp.UpdatedAt = s.now()

		err = tx.Update(doc.Ref, []firestore.Update{
			{Path: "name", Value: fp.Name},
			{Path: "phone", Value: fp.Phone},
			{Path: "location", Value: fp.Location},
			{Path: "description", Value: fp.Description},
			{Path: "website", Value: fp.Website},
			{Path: "updated_at", Value: fp.UpdatedAt},
		})
		if err != nil {
			return err
		}
		result = fp.toProfile(doc.Ref.ID)
		return nil
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NewStoreError(core.ErrNotFound)
		}
		return nil, &core.StoreError{Message: msgSaveFailed, Err: fmt.Errorf("update profile: %w", err)}
	}
	return result, nil
}

var _ Store = (*FirestoreStore)(nil)
