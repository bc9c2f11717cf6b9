package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hbnb/internal/domain"
)

func TestAllowed(t *testing.T) {
	alice := domain.Identity{SubjectID: "alice"}
	bob := domain.Identity{SubjectID: "bob"}
	admin := domain.Identity{SubjectID: "root", IsAdmin: true}

	alicePlace := Resource{Kind: KindPlace, OwnerID: "alice"}
	aliceReview := Resource{Kind: KindReview, OwnerID: "alice"}
	aliceUser := Resource{Kind: KindUser, OwnerID: "alice"}

	tests := []struct {
		name     string
		identity domain.Identity
		action   Action
		resource Resource
		want     bool
	}{
		{"owner updates place", alice, ActionUpdate, alicePlace, true},
		{"owner deletes place", alice, ActionDelete, alicePlace, true},
		{"stranger updates place", bob, ActionUpdate, alicePlace, false},
		{"stranger deletes review", bob, ActionDelete, aliceReview, false},
		{"author updates review", alice, ActionUpdate, aliceReview, true},
		{"user updates self", alice, ActionUpdate, aliceUser, true},
		{"user deletes other user", bob, ActionDelete, aliceUser, false},
		{"user grants self admin", alice, ActionGrantAdmin, aliceUser, false},
		{"user updates amenity", alice, ActionUpdate, Amenity(), false},
		{"admin updates amenity", admin, ActionUpdate, Amenity(), true},
		{"admin deletes foreign place", admin, ActionDelete, alicePlace, true},
		{"admin grants admin", admin, ActionGrantAdmin, aliceUser, true},
		{"anonymous vs unowned resource", domain.Identity{}, ActionUpdate, Resource{Kind: KindPlace}, false},
		{"user creates account for others", alice, ActionCreate, NewUser(), false},
		{"admin creates account for others", admin, ActionCreate, NewUser(), true},
		{"unknown action", alice, Action("publish"), alicePlace, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.identity, tt.action, tt.resource))
		})
	}
}

func TestResourceConstructors(t *testing.T) {
	u := &domain.User{Base: domain.Base{ID: "u1"}}
	p := &domain.Place{Base: domain.Base{ID: "p1"}, OwnerID: "u1"}
	r := &domain.Review{Base: domain.Base{ID: "r1"}, UserID: "u2"}

	assert.Equal(t, Resource{Kind: KindUser, OwnerID: "u1"}, User(u))
	assert.Equal(t, Resource{Kind: KindPlace, OwnerID: "u1"}, Place(p))
	assert.Equal(t, Resource{Kind: KindReview, OwnerID: "u2"}, Review(r))
	assert.Equal(t, Resource{Kind: KindAmenity}, Amenity())
}
