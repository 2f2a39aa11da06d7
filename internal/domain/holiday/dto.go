package holiday

import (
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Date        string  `json:"date"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}

	return errs.Err()
}

type UpdateHolidayRequest struct {
	ID          string  `json:"-"`
	Date        *string `json:"date,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}

	return errs.Err()
}

type HolidayResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func ToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:          h.ID,
		Date:        calendar.FormatDate(h.Date),
		Name:        h.Name,
		Description: h.Description,
	}
}

func ToResponses(hs []Holiday) []HolidayResponse {
	out := make([]HolidayResponse, len(hs))
	for i, h := range hs {
		out[i] = ToResponse(h)
	}
	return out
}

