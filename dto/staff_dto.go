package dto

type CreateStaffDTO struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName" binding:"required"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

type UpdateStaffDTO struct {
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Password    *string `json:"password,omitempty" binding:"omitempty,min=6"`
	DisplayName *string `json:"displayName,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}
