package handler

type createMessageRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body"  validate:"max=4000"`
}

// updateMessageRequest is a partial update; absent fields stay unchanged.
type updateMessageRequest struct {
	Title     *string `json:"title"     validate:"omitempty,max=200"`
	Body      *string `json:"body"      validate:"omitempty,max=4000"`
	Completed *bool   `json:"completed"`
}

type listMessagesResponse struct {
	Items []messageResponse `json:"items"`
	Total int               `json:"total"`
}

type messageResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
