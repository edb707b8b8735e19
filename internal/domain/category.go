package domain

import "time"

// Category groups items under a unique code
type Category struct {
	ID        int64     `db:"id"`
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	UpdatedAt time.Time `db:"updated_at"`
}
