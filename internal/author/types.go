package author

type CreateAuthorRequest struct {
	Name string  `json:"name" binding:"required,notblank,max=255"`
	Bio  *string `json:"bio" binding:"omitnil,max=1000"`
}
