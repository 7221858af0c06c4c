package user

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID               int    `json:"userId"`
	Email            string `json:"email"`
	Password         string `json:"password,omitempty"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Phone            string `json:"phone"`
	Role             string `json:"role"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
	TOTPSecret       string `json:"-"`
	CreatedAt        string `json:"createdAt,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty"`
}

// ProfileUpdate carries the optional fields a user may change on their own
// profile. A password change needs both passwords.
type ProfileUpdate struct {
	FirstName       *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName        *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	CurrentPassword string  `json:"currentPassword,omitempty"`
	NewPassword     string  `json:"newPassword,omitempty" validate:"omitempty,min=8,max=72"`
}

func sanitizeUser(user User) User {
	user.Password = ""
	user.TOTPSecret = ""
	return user
}
