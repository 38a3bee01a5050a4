package profile

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	caller := &Identity{ID: "uid-1"}

	tests := []struct {
		name        string
		requestedID string
		caller      *Identity
		want        Target
		wantErr     error
	}{
		{
			name:   "own profile without id",
			caller: caller,
			want:   Target{Key: LookupKey{By: ByOwnerID, Value: "uid-1"}, IsOwner: true},
		},
		{
			name:        "id equal to caller",
			requestedID: "uid-1",
			caller:      caller,
			want:        Target{Key: LookupKey{By: ByID, Value: "uid-1"}, IsOwner: true},
		},
		{
			name:        "id without caller",
			requestedID: "p-42",
			want:        Target{Key: LookupKey{By: ByID, Value: "p-42"}},
		},
		{
			name:        "id of someone else",
			requestedID: "p-42",
			caller:      caller,
			want:        Target{Key: LookupKey{By: ByID, Value: "p-42"}},
		},
		{
			name:    "nothing to resolve",
			wantErr: ErrNotAuthenticated,
		},
		{
			name:    "caller without subject is anonymous",
			caller:  &Identity{},
			wantErr: ErrNotAuthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.requestedID, tt.caller)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
