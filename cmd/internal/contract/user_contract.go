package contract

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"userName" validate:"omitempty,min=2,max=80"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=20,nospaces"`
	Password    string `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

// UpdateUserRequest changes the email and/or the password of a user. The
// password only changes when both passwords are given.
type UpdateUserRequest struct {
	Email           *string `json:"email" validate:"omitempty,email"`
	CurrentPassword *string `json:"currentPassword" validate:"omitempty,min=1,max=64"`
	NewPassword     *string `json:"newPassword" validate:"omitempty,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
}

type UserResponse struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Username    string          `json:"userName"`
	PhoneNumber string          `json:"phoneNumber,omitempty"`
	Rates       []*RateResponse `json:"rates"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

type UserLoginResponse struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int32  `json:"expiresIn"`
}
