package domain

// Review is a rated comment a user leaves on a place.
type Review struct {
	Base
	Text    string `json:"text"`
	Rating  int    `json:"rating"`
	UserID  string `json:"user_id"`
	PlaceID string `json:"place_id"`
}

type ReviewChanges struct {
	Text   *string
	Rating *int
}

// NewReview validates text and rating and binds the review to its author and place.
func NewReview(text string, rating int, author *User, place *Place) (*Review, error) {
	if err := firstError(
		checkReviewText(text),
		checkRating(rating),
	); err != nil {
		return nil, err
	}
	if author == nil || author.ID == "" {
		return nil, Referencef("user not found")
	}
	if place == nil || place.ID == "" {
		return nil, Referencef("place not found")
	}
	return &Review{
		Base:    newBase(),
		Text:    text,
		Rating:  rating,
		UserID:  author.ID,
		PlaceID: place.ID,
	}, nil
}

func (r *Review) Apply(c ReviewChanges) error {
	if c.Text != nil {
		if err := checkReviewText(*c.Text); err != nil {
			return err
		}
	}
	if c.Rating != nil {
		if err := checkRating(*c.Rating); err != nil {
			return err
		}
	}

	if c.Text != nil {
		r.Text = *c.Text
	}
	if c.Rating != nil {
		r.Rating = *c.Rating
	}
	r.Touch()
	return nil
}

func (r *Review) Clone() *Review {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

func (r *Review) Attribute(name string) (any, bool) {
	switch name {
	case "text":
		return r.Text, true
	case "rating":
		return r.Rating, true
	case "user_id":
		return r.UserID, true
	case "place_id":
		return r.PlaceID, true
	}
	return r.baseAttribute(name)
}
