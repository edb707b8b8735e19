package domain

// PageRequest is a zero-based window over an ordered result set
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the number of rows preceding the window
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}
