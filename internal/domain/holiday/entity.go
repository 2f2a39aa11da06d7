package holiday

import "time"

type Holiday struct {
	ID          string
	Date        time.Time
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
