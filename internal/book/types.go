package book

type CreateBookRequest struct {
	Title           string `json:"title" binding:"required,notblank,max=255"`
	AuthorID        uint   `json:"author_id" binding:"required"`
	ISBN            string `json:"isbn" binding:"required,notblank,max=20"`
	PublicationYear int    `json:"publication_year" binding:"required,min=1000,notfuture"`
	Available       *bool  `json:"available"`
}

// UpdateBookRequest 所有字段可选, 出现时规则与创建一致
type UpdateBookRequest struct {
	Title           *string `json:"title" binding:"omitnil,notblank,max=255"`
	AuthorID        *uint   `json:"author_id" binding:"omitnil,required"`
	ISBN            *string `json:"isbn" binding:"omitnil,notblank,max=20"`
	PublicationYear *int    `json:"publication_year" binding:"omitnil,min=1000,notfuture"`
	Available       *bool   `json:"available"`
}
