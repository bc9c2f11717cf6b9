package domain

// User represents a registered account. PasswordHash is persisted but never rendered.
type User struct {
	Base
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	IsAdmin      bool   `json:"is_admin"`
}

// UserChanges lists the user fields an update may touch. Nil fields are left alone.
type UserChanges struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
	IsAdmin      *bool
}

// NewUser validates the user fields and returns a new, unsaved user.
// Email uniqueness is not checked here; it needs the whole user set.
func NewUser(firstName, lastName, email string, isAdmin bool) (*User, error) {
	if err := firstError(
		checkFirstName(firstName),
		checkLastName(lastName),
		checkEmail(email),
	); err != nil {
		return nil, err
	}
	return &User{
		Base:      newBase(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		IsAdmin:   isAdmin,
	}, nil
}

// Apply validates every provided field and only then applies them.
func (u *User) Apply(c UserChanges) error {
	if c.FirstName != nil {
		if err := checkFirstName(*c.FirstName); err != nil {
			return err
		}
	}
	if c.LastName != nil {
		if err := checkLastName(*c.LastName); err != nil {
			return err
		}
	}
	if c.Email != nil {
		if err := checkEmail(*c.Email); err != nil {
			return err
		}
	}
	if c.PasswordHash != nil && *c.PasswordHash == "" {
		return Validationf("password hash must not be empty")
	}

	if c.FirstName != nil {
		u.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		u.LastName = *c.LastName
	}
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	if c.IsAdmin != nil {
		u.IsAdmin = *c.IsAdmin
	}
	u.Touch()
	return nil
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

// Attribute returns the scalar value stored under the JSON field name.
func (u *User) Attribute(name string) (any, bool) {
	switch name {
	case "first_name":
		return u.FirstName, true
	case "last_name":
		return u.LastName, true
	case "email":
		return u.Email, true
	case "is_admin":
		return u.IsAdmin, true
	}
	return u.baseAttribute(name)
}
