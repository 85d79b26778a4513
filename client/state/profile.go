package state

// Address is the shipping address selected through the province/district/ward cascade.
type Address struct {
	Province string `json:"province,omitempty"`
	District string `json:"district,omitempty"`
	Ward     string `json:"ward,omitempty"`
	Street   string `json:"street,omitempty"`
}

// Profile represents the signed-in user. The zero value means "no user".
type Profile struct {
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name,omitempty"`
	Email   string  `json:"email,omitempty"`
	Phone   string  `json:"phone,omitempty"`
	Address Address `json:"address,omitempty"`
	Avatar  string  `json:"avatar,omitempty"`
	Role    Role    `json:"role,omitempty"`
}

// IsZero reports whether p carries no user.
func (p Profile) IsZero() bool {
	return p == Profile{}
}

// ProfilePatch is a partial profile update; nil fields are left unchanged.
type ProfilePatch struct {
	Name    *string  `json:"name,omitempty"`
	Phone   *string  `json:"phone,omitempty"`
	Address *Address `json:"address,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.Address == nil
}

// Apply copies the set fields onto profile.
func (p ProfilePatch) Apply(profile *Profile) {
	if p.Name != nil {
		profile.Name = *p.Name
	}
	if p.Phone != nil {
		profile.Phone = *p.Phone
	}
	if p.Address != nil {
		profile.Address = *p.Address
	}
}
