package types

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// PageRequest represents the page number path parameter
type PageRequest struct {
	Number int `uri:"number" binding:"required,min=1"`
}

// PageQuery represents optional query overrides for a page request
type PageQuery struct {
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=1000"`
}

// LimitQuery represents a bounded list size
type LimitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}
