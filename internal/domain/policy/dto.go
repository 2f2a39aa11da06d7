package policy

import (
	"strings"

	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
)

type UpsertPolicyRequest struct {
	Department          string  `json:"department"`
	EmploymentType      string  `json:"employment_type"`
	PunchInStart        string  `json:"punch_in_start"`
	PunchOutEnd         string  `json:"punch_out_end"`
	OfficeStart         string  `json:"office_start"`
	OfficeEnd           string  `json:"office_end"`
	LateLoginThreshold  string  `json:"late_login_threshold"`
	HalfDayThreshold    float64 `json:"half_day_threshold"`
	FullDayThreshold    float64 `json:"full_day_threshold"`
	MorningHalfLogin    string  `json:"morning_half_login,omitempty"`
	MorningHalfLogout   string  `json:"morning_half_logout,omitempty"`
	AfternoonHalfLogin  string  `json:"afternoon_half_login,omitempty"`
	AfternoonHalfLogout string  `json:"afternoon_half_logout,omitempty"`
}

// Validate checks the request and, on success, returns the policy it describes.
// Optional half-day windows fall back to the builtin values.
func (r *UpsertPolicyRequest) Validate() (DepartmentPolicy, error) {
	var errs validator.ValidationErrors
	p := Builtin(strings.TrimSpace(r.Department))

	if validator.IsEmpty(r.Department) {
		errs.Add("department", "department is required")
	}
	p.EmploymentType = strings.ToUpper(strings.TrimSpace(r.EmploymentType))
	if p.EmploymentType == "" {
		p.EmploymentType = DefaultEmploymentType
	}

	required := []struct {
		field string
		value string
		dst   *calendar.TimeOfDay
	}{
		{"punch_in_start", r.PunchInStart, &p.PunchInStart},
		{"punch_out_end", r.PunchOutEnd, &p.PunchOutEnd},
		{"office_start", r.OfficeStart, &p.OfficeStart},
		{"office_end", r.OfficeEnd, &p.OfficeEnd},
		{"late_login_threshold", r.LateLoginThreshold, &p.LateLoginThreshold},
	}
	for _, f := range required {
		if validator.IsEmpty(f.value) {
			errs.Add(f.field, f.field+" is required")
			continue
		}
		tod, ok := validator.IsValidTimeOfDay(f.value)
		if !ok {
			errs.Add(f.field, f.field+" must be in HH:MM format")
			continue
		}
		*f.dst = tod
	}

	optional := []struct {
		field string
		value string
		dst   *calendar.TimeOfDay
	}{
		{"morning_half_login", r.MorningHalfLogin, &p.MorningHalfLogin},
		{"morning_half_logout", r.MorningHalfLogout, &p.MorningHalfLogout},
		{"afternoon_half_login", r.AfternoonHalfLogin, &p.AfternoonHalfLogin},
		{"afternoon_half_logout", r.AfternoonHalfLogout, &p.AfternoonHalfLogout},
	}
	for _, f := range optional {
		if validator.IsEmpty(f.value) {
			continue
		}
		tod, ok := validator.IsValidTimeOfDay(f.value)
		if !ok {
			errs.Add(f.field, f.field+" must be in HH:MM format")
			continue
		}
		*f.dst = tod
	}

	if r.HalfDayThreshold <= 0 {
		errs.Add("half_day_threshold", "half_day_threshold must be positive")
	}
	if r.FullDayThreshold <= 0 || r.FullDayThreshold > 24 {
		errs.Add("full_day_threshold", "full_day_threshold must be between 0 and 24")
	}
	if r.HalfDayThreshold >= r.FullDayThreshold {
		errs.Add("half_day_threshold", "half_day_threshold must be less than full_day_threshold")
	}
	p.HalfDayThreshold = r.HalfDayThreshold
	p.FullDayThreshold = r.FullDayThreshold

	if len(errs) == 0 && !p.OfficeStart.Before(p.OfficeEnd) {
		errs.Add("office_end", "office_end must be after office_start")
	}

	if err := errs.Err(); err != nil {
		return DepartmentPolicy{}, err
	}
	return p, nil
}

type PolicyResponse struct {
	ID                  string             `json:"id,omitempty"`
	Department          string             `json:"department"`
	EmploymentType      string             `json:"employment_type"`
	PunchInStart        calendar.TimeOfDay `json:"punch_in_start"`
	PunchOutEnd         calendar.TimeOfDay `json:"punch_out_end"`
	OfficeStart         calendar.TimeOfDay `json:"office_start"`
	OfficeEnd           calendar.TimeOfDay `json:"office_end"`
	LateLoginThreshold  calendar.TimeOfDay `json:"late_login_threshold"`
	HalfDayThreshold    float64            `json:"half_day_threshold"`
	FullDayThreshold    float64            `json:"full_day_threshold"`
	MorningHalfLogin    calendar.TimeOfDay `json:"morning_half_login"`
	MorningHalfLogout   calendar.TimeOfDay `json:"morning_half_logout"`
	AfternoonHalfLogin  calendar.TimeOfDay `json:"afternoon_half_login"`
	AfternoonHalfLogout calendar.TimeOfDay `json:"afternoon_half_logout"`
}

func ToResponse(p DepartmentPolicy) PolicyResponse {
	return PolicyResponse{
		ID:                  p.ID,
		Department:          p.Department,
		EmploymentType:      p.EmploymentType,
		PunchInStart:        p.PunchInStart,
		PunchOutEnd:         p.PunchOutEnd,
		OfficeStart:         p.OfficeStart,
		OfficeEnd:           p.OfficeEnd,
		LateLoginThreshold:  p.LateLoginThreshold,
		HalfDayThreshold:    p.HalfDayThreshold,
		FullDayThreshold:    p.FullDayThreshold,
		MorningHalfLogin:    p.MorningHalfLogin,
		MorningHalfLogout:   p.MorningHalfLogout,
		AfternoonHalfLogin:  p.AfternoonHalfLogin,
		AfternoonHalfLogout: p.AfternoonHalfLogout,
	}
}
