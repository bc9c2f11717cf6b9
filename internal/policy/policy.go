// Package policy decides whether an identity may mutate a resource.
package policy

import "hbnb/internal/domain"

type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionGrantAdmin Action = "grant_admin"
)

type ResourceKind string

const (
	KindUser    ResourceKind = "user"
	KindPlace   ResourceKind = "place"
	KindAmenity ResourceKind = "amenity"
	KindReview  ResourceKind = "review"
)

// Resource identifies what is being acted on and the subject it is scoped to:
// the user itself, a place's owner, a review's author. Amenities have no owner.
type Resource struct {
	Kind    ResourceKind
	OwnerID string
}

func User(u *domain.User) Resource {
	return Resource{Kind: KindUser, OwnerID: u.ID}
}

// NewUser is the resource for creating an account on someone else's behalf.
func NewUser() Resource {
	return Resource{Kind: KindUser}
}

func Place(p *domain.Place) Resource {
	return Resource{Kind: KindPlace, OwnerID: p.OwnerID}
}

func Amenity() Resource {
	return Resource{Kind: KindAmenity}
}

func Review(r *domain.Review) Resource {
	return Resource{Kind: KindReview, OwnerID: r.UserID}
}

// Allowed reports whether identity may perform action on resource. Admins may do anything;
// everyone else may only update or delete the user, place or review scoped to them.
func Allowed(identity domain.Identity, action Action, resource Resource) bool {
	if identity.IsAdmin {
		return true
	}
	if identity.SubjectID == "" {
		return false
	}
	switch action {
	case ActionUpdate, ActionDelete:
	default:
		return false
	}
	switch resource.Kind {
	case KindUser, KindPlace, KindReview:
		return resource.OwnerID != "" && resource.OwnerID == identity.SubjectID
	}
	return false
}
