package services

// Form inputs are bound and validated by gin before they reach a service.

type RegisterInput struct {
	Name     string `form:"name" binding:"required,max=150"`
	Email    string `form:"email" binding:"required,email,max=150"`
	Password string `form:"password" binding:"required,max=72"`
	Batch    string `form:"batch" binding:"max=20"`
	Company  string `form:"company" binding:"max=150"`
}

type LoginInput struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// ProfileInput overwrites every editable column; an omitted field is stored empty.
type ProfileInput struct {
	Name    string `form:"name" binding:"max=150"`
	Batch   string `form:"batch" binding:"max=20"`
	Company string `form:"company" binding:"max=150"`
	Role    string `form:"role" binding:"max=150"`
}

// SearchInput criteria are optional; an empty one matches everything.
type SearchInput struct {
	Name    string `form:"name"`
	Batch   string `form:"batch"`
	Company string `form:"company"`
}

type PostInput struct {
	Content string `form:"content" binding:"max=5000"`
}

type CommentInput struct {
	CommentText string `form:"comment_text" binding:"max=2000"`
}
