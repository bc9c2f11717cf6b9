package domain

import "slices"

// Place is a rental listing owned by exactly one user.
type Place struct {
	Base
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	OwnerID     string   `json:"owner_id"`
	AmenityIDs  []string `json:"amenity_ids"`
	ReviewIDs   []string `json:"review_ids"`
}

// PlaceChanges lists the place fields an update may touch. OwnerID and AmenityIDs must be
// resolved by the caller before Apply; Apply only checks their shape.
type PlaceChanges struct {
	Title       *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
	OwnerID     *string
	AmenityIDs  *[]string
}

// NewPlace validates the listing fields and binds it to owner.
func NewPlace(title, description string, price, latitude, longitude float64, owner *User) (*Place, error) {
	if err := firstError(
		checkTitle(title),
		checkPrice(price),
		checkLatitude(latitude),
		checkLongitude(longitude),
	); err != nil {
		return nil, err
	}
	if owner == nil || owner.ID == "" {
		return nil, Referencef("owner not found")
	}
	return &Place{
		Base:        newBase(),
		Title:       title,
		Description: description,
		Price:       price,
		Latitude:    latitude,
		Longitude:   longitude,
		OwnerID:     owner.ID,
	}, nil
}

func (p *Place) Apply(c PlaceChanges) error {
	if c.Title != nil {
		if err := checkTitle(*c.Title); err != nil {
			return err
		}
	}
	if c.Price != nil {
		if err := checkPrice(*c.Price); err != nil {
			return err
		}
	}
	if c.Latitude != nil {
		if err := checkLatitude(*c.Latitude); err != nil {
			return err
		}
	}
	if c.Longitude != nil {
		if err := checkLongitude(*c.Longitude); err != nil {
			return err
		}
	}
	if c.OwnerID != nil && *c.OwnerID == "" {
		return Referencef("owner not found")
	}

	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.Latitude != nil {
		p.Latitude = *c.Latitude
	}
	if c.Longitude != nil {
		p.Longitude = *c.Longitude
	}
	if c.OwnerID != nil {
		p.OwnerID = *c.OwnerID
	}
	if c.AmenityIDs != nil {
		p.AmenityIDs = nil
		for _, id := range *c.AmenityIDs {
			p.addAmenity(id)
		}
	}
	p.Touch()
	return nil
}

// AddAmenity links an amenity id, ignoring duplicates.
func (p *Place) AddAmenity(id string) {
	if p.addAmenity(id) {
		p.Touch()
	}
}

func (p *Place) addAmenity(id string) bool {
	if id == "" || slices.Contains(p.AmenityIDs, id) {
		return false
	}
	p.AmenityIDs = append(p.AmenityIDs, id)
	return true
}

// AddReview appends a review id, keeping creation order.
func (p *Place) AddReview(id string) {
	p.ReviewIDs = append(p.ReviewIDs, id)
	p.Touch()
}

// RemoveReview drops a deleted review id.
func (p *Place) RemoveReview(id string) bool {
	idx := slices.Index(p.ReviewIDs, id)
	if idx < 0 {
		return false
	}
	p.ReviewIDs = slices.Delete(p.ReviewIDs, idx, idx+1)
	p.Touch()
	return true
}

func (p *Place) Clone() *Place {
	if p == nil {
		return nil
	}
	cp := *p
	cp.AmenityIDs = slices.Clone(p.AmenityIDs)
	cp.ReviewIDs = slices.Clone(p.ReviewIDs)
	return &cp
}

func (p *Place) Attribute(name string) (any, bool) {
	switch name {
	case "title":
		return p.Title, true
	case "description":
		return p.Description, true
	case "price":
		return p.Price, true
	case "latitude":
		return p.Latitude, true
	case "longitude":
		return p.Longitude, true
	case "owner_id":
		return p.OwnerID, true
	}
	return p.baseAttribute(name)
}
