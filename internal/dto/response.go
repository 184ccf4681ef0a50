package dto

// PaginationRequest is embedded by list query params.
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize applies defaults for absent paging params.
func (p *PaginationRequest) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
}

// Offset converts page/page_size into a row offset.
func (p *PaginationRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}
