// Package profile holds the profile data-integrity core: sanitization,
// validation, listing statistics, profile resolution and the edit session
// state machine. Nothing in this package performs I/O on its own; storage and
// identity are reached through the small interfaces callers pass in.
package profile

import "time"

// Editable field names. They double as keys of an ErrorSet.
const (
	FieldName        = "name"
	FieldPhone       = "phone"
	FieldLocation    = "location"
	FieldDescription = "description"
	FieldWebsite     = "website"
)

// EditableFields lists the fields an owner may change, in display order.
var EditableFields = []string{FieldName, FieldPhone, FieldLocation, FieldDescription, FieldWebsite}

// Profile is the identity and display record of a marketplace user.
type Profile struct {
	ID          string
	OwnerID     string
	Name        string
	Email       string
	Phone       string
	Location    string
	Description string
	Website     string
	Verified    bool
	Rating      float64
	ReviewCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fields returns the user-editable part of the profile.
func (p *Profile) Fields() Fields {
	if p == nil {
		return Fields{}
	}
	return Fields{
		Name:        p.Name,
		Phone:       p.Phone,
		Location:    p.Location,
		Description: p.Description,
		Website:     p.Website,
	}
}

// Clone returns a copy that shares nothing with p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Fields is a partial profile as typed by the owner. A missing value is the
// empty string.
type Fields struct {
	Name        string
	Phone       string
	Location    string
	Description string
	Website     string
}

// Get returns the value of the named field.
func (f Fields) Get(name string) (string, bool) {
	switch name {
	case FieldName:
		return f.Name, true
	case FieldPhone:
		return f.Phone, true
	case FieldLocation:
		return f.Location, true
	case FieldDescription:
		return f.Description, true
	case FieldWebsite:
		return f.Website, true
	}
	return "", false
}

// With returns a copy of f with the named field replaced.
func (f Fields) With(name, value string) (Fields, bool) {
	switch name {
	case FieldName:
		f.Name = value
	case FieldPhone:
		f.Phone = value
	case FieldLocation:
		f.Location = value
	case FieldDescription:
		f.Description = value
	case FieldWebsite:
		f.Website = value
	default:
		return f, false
	}
	return f, true
}

// ListingStatus is the lifecycle state of a listing as seen by statistics.
type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingSold    ListingStatus = "sold"
	ListingPending ListingStatus = "pending"
)

// ListingSummary is the read projection of a listing used for aggregation.
type ListingSummary struct {
	ID            string
	Status        ListingStatus
	ViewCount     int
	FavoriteCount int
	CreatedAt     time.Time
}

// Stats are derived from a listing snapshot on every load and never stored.
type Stats struct {
	ActiveListings int
	SoldListings   int
	TotalViews     int
	TotalFavorites int
}

// Identity is the caller as resolved by the identity service.
type Identity struct {
	ID    string
	Email string
}

// View is a fully assembled profile page model.
type View struct {
	Profile  *Profile
	Stats    Stats
	Listings []ListingSummary
	IsOwner  bool
}
