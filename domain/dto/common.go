package dto

type PaginationRequest struct {
	Page  int `query:"page" validate:"omitempty,gte=1"`
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

// Normalize fills in defaults for unset pagination values.
func (p *PaginationRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

func (p *PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}
