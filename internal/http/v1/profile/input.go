package profile

import "github.com/MitroiBogdan/NEXAR/internal/platform/pagination"

// ProfileGetInput for GET /profile (no body needed)
type ProfileGetInput struct{}

// ProfileByIDInput for GET /profiles/{id}
type ProfileByIDInput struct {
	ID string `path:"id" minLength:"1" maxLength:"128" doc:"Profile identifier" example:"p-8f2c"`
}

// ListingsInput for GET /profiles/{id}/listings
type ListingsInput struct {
	ID string `path:"id" minLength:"1" maxLength:"128" doc:"Profile identifier" example:"p-8f2c"`
	pagination.Params
}

// ProfileUpdateInput for PATCH /profile. Omitted fields keep their value; an
// empty string clears an optional field. Content rules are enforced by the
// profile validator so every failing field is reported at once.
type ProfileUpdateInput struct {
	Body struct {
		Name        *string `json:"name,omitempty"        maxLength:"1000" doc:"Display name"          example:"Ion Popescu"`
		Phone       *string `json:"phone,omitempty"       maxLength:"1000" doc:"Romanian phone number" example:"0790 454 647"`
		Location    *string `json:"location,omitempty"    maxLength:"1000" doc:"City, county or sector" example:"Cluj-Napoca"`
		Description *string `json:"description,omitempty" maxLength:"2000" doc:"About the seller"      example:"Vând piese auto."`
		Website     *string `json:"website,omitempty"     maxLength:"1000" doc:"Website address"       example:"https://ion.ro"`
	}
}

// DisplayNameInput for GET /profile/display-name (no body needed)
type DisplayNameInput struct{}
