package domain

// Amenity is a feature a place can offer, shared across places.
type Amenity struct {
	Base
	Name string `json:"name"`
}

type AmenityChanges struct {
	Name *string
}

func NewAmenity(name string) (*Amenity, error) {
	if err := checkAmenityName(name); err != nil {
		return nil, err
	}
	return &Amenity{Base: newBase(), Name: name}, nil
}

func (a *Amenity) Apply(c AmenityChanges) error {
	if c.Name != nil {
		if err := checkAmenityName(*c.Name); err != nil {
			return err
		}
		a.Name = *c.Name
	}
	a.Touch()
	return nil
}

func (a *Amenity) Clone() *Amenity {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

func (a *Amenity) Attribute(name string) (any, bool) {
	if name == "name" {
		return a.Name, true
	}
	return a.baseAttribute(name)
}
