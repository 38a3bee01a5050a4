package profile

import (
	"github.com/MitroiBogdan/NEXAR/internal/platform/timeutil"
)

// Profile is the public representation of a marketplace profile. Email is
// only present for the owner.
type Profile struct {
	ID          string        `json:"id"                    doc:"Profile identifier"             example:"p-8f2c"`
	OwnerID     string        `json:"ownerId"               doc:"Account that owns the profile"  example:"uid-123"`
	Name        string        `json:"name"                  doc:"Display name"                   example:"Ion Popescu"`
	Email       string        `json:"email,omitempty"       doc:"Contact email (owner only)"     example:"ion@example.com"`
	Phone       string        `json:"phone,omitempty"       doc:"Romanian phone number"          example:"0790454647"`
	Location    string        `json:"location,omitempty"    doc:"City, county or sector"         example:"Cluj-Napoca"`
	Description string        `json:"description,omitempty" doc:"About the seller"               example:"Vând piese auto."`
	Website     string        `json:"website,omitempty"     doc:"Website address"                example:"https://ion.ro"`
	Verified    bool          `json:"verified"              doc:"Identity verified by the market" example:"true"`
	Rating      float64       `json:"rating"                doc:"Average review rating"          example:"4.5"`
	ReviewCount int           `json:"reviewCount"           doc:"Number of reviews"              example:"12"`
	CreatedAt   timeutil.Time `json:"createdAt"             doc:"Creation timestamp"             example:"2024-01-15T10:30:00.000Z"`
	UpdatedAt   timeutil.Time `json:"updatedAt"             doc:"Last update timestamp"          example:"2024-01-15T10:30:00.000Z"`
}

// Stats are derived from the seller's listings on every load.
type Stats struct {
	ActiveListings int `json:"activeListings" doc:"Listings currently for sale" example:"3"`
	SoldListings   int `json:"soldListings"   doc:"Listings marked sold"        example:"7"`
	TotalViews     int `json:"totalViews"     doc:"Views across all listings"   example:"1520"`
	TotalFavorites int `json:"totalFavorites" doc:"Favorites across listings"   example:"41"`
}

// ProfileView is a profile page: the profile, its statistics and whether the
// caller may edit it.
type ProfileView struct {
	Profile Profile `json:"profile"`
	Stats   Stats   `json:"stats"`
	IsOwner bool    `json:"isOwner" doc:"True when the caller owns the profile" example:"false"`
}

// Listing is the summary of one listing of a seller.
type Listing struct {
	ID            string        `json:"id"            doc:"Listing identifier"  example:"l-31"`
	Status        string        `json:"status"        doc:"Listing status"      example:"active" enum:"active,sold,pending"`
	ViewCount     int           `json:"viewCount"     doc:"Number of views"     example:"120"`
	FavoriteCount int           `json:"favoriteCount" doc:"Number of favorites" example:"4"`
	CreatedAt     timeutil.Time `json:"createdAt"     doc:"Creation timestamp"  example:"2024-01-15T10:30:00.000Z"`
}
