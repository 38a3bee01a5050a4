package profile

// ProfileViewOutput for GET /profile and GET /profiles/{id}
type ProfileViewOutput struct {
	Body ProfileView
}

// ProfileUpdateOutput for PATCH /profile
type ProfileUpdateOutput struct {
	Body Profile
}

// ListingsData is the response body containing one page of listings.
type ListingsData struct {
	Items []Listing `json:"items" doc:"Listings, newest first"`
	Total int       `json:"total" doc:"Total number of listings of the seller" example:"12"`
}

// ListingsOutput is the response wrapper with the pagination Link header.
type ListingsOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body ListingsData
}

// DisplayNameOutput for GET /profile/display-name
type DisplayNameOutput struct {
	Body struct {
		DisplayName string `json:"displayName" doc:"Name shown for the signed-in user" example:"Ion Popescu"`
	}
}
