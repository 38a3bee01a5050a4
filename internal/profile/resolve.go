package profile

// LookupField selects the column a profile is looked up by.
type LookupField string

const (
	// ByID addresses the opaque, store-assigned profile id used in shareable URLs.
	ByID LookupField = "id"
	// ByOwnerID addresses the durable identity subject ("my profile").
	ByOwnerID LookupField = "owner_id"
)

// LookupKey identifies a single profile in the store.
type LookupKey struct {
	By    LookupField
	Value string
}

// Target is the outcome of resolving a profile request.
type Target struct {
	Key     LookupKey
	IsOwner bool
}

// Resolve decides which profile a request addresses and whether the caller
// owns it. requestedID is empty when the request names no profile; caller is
// nil for anonymous requests.
func Resolve(requestedID string, caller *Identity) (Target, error) {
	hasCaller := caller != nil && caller.ID != ""
	switch {
	case requestedID == "" && !hasCaller:
		return Target{}, ErrNotAuthenticated
	case requestedID == "":
		return Target{Key: LookupKey{By: ByOwnerID, Value: caller.ID}, IsOwner: true}, nil
	case hasCaller && requestedID == caller.ID:
		return Target{Key: LookupKey{By: ByID, Value: requestedID}, IsOwner: true}, nil
	default:
		return Target{Key: LookupKey{By: ByID, Value: requestedID}}, nil
	}
}
