package models

type SignUp struct {
	Email     string `json:"email" validate:"required,email,lte=255"`
	FirstName string `json:"first_name" validate:"required,lte=255"`
	LastName  string `json:"last_name" validate:"omitempty,lte=255"`
	Phone     string `json:"phone" validate:"required,lte=20"`
	Password  string `json:"password" validate:"required,gte=8,lte=255"`
}

type SignIn struct {
	Email    string `json:"email" validate:"required,email,lte=255"`
	Password string `json:"password" validate:"required,lte=255"`
}

type VerifyOTP struct {
	Email string `json:"email" validate:"required,email,lte=255"`
	OTP   string `json:"otp" validate:"required,min=4,max=8,numeric"`
}
