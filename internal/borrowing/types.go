package borrowing

// BookActionRequest 借书与还书请求
type BookActionRequest struct {
	BookID uint `json:"book_id" binding:"required"`
}
