package user

type CreateUserRequest struct {
	Name                 string `json:"name" binding:"required,notblank,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"eqfield=Password"`
	LibraryID            string `json:"library_id" binding:"required,notblank,max=255"`
	Role                 string `json:"role" binding:"omitempty,oneof=admin user"`
}

// UpdateUserRequest 除 library_id 外均可省略
type UpdateUserRequest struct {
	Name                 *string `json:"name" binding:"omitnil,notblank,max=255"`
	Email                *string `json:"email" binding:"omitnil,notblank,email,max=255"`
	Password             string  `json:"password" binding:"omitempty,min=8"`
	PasswordConfirmation string  `json:"password_confirmation" binding:"eqfield=Password"`
	LibraryID            string  `json:"library_id" binding:"required,notblank,max=255"`
	Role                 *string `json:"role" binding:"omitnil,oneof=admin user"`
}
