package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-policy-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-policy-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
)

// actorOrAbort returns the authenticated caller, writing 401 when the route was
// mounted without AuthRequired.
func actorOrAbort(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return auth.Actor{}, false
	}
	return actor, true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

// optionalIntQuery parses key into errs when present.
func optionalIntQuery(r *http.Request, key string, errs *validator.ValidationErrors) *int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		errs.Add(key, key+" must be a number")
		return nil
	}
	return &n
}

// optionalDateQuery parses a YYYY-MM-DD query parameter into errs when present.
func optionalDateQuery(r *http.Request, key string, errs *validator.ValidationErrors) *time.Time {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	d, ok := validator.IsValidDate(val)
	if !ok {
		errs.Add(key, key+" must be in YYYY-MM-DD format")
		return nil
	}
	return &d
}

// dateRangeQuery reads from and to, defaulting to the month containing now.
func dateRangeQuery(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	var errs validator.ValidationErrors
	from := optionalDateQuery(r, "from", &errs)
	to := optionalDateQuery(r, "to", &errs)
	if err := errs.Err(); err != nil {
		return time.Time{}, time.Time{}, err
	}

	today := calendar.DateOf(now)
	start, end := calendar.MonthStart(today), calendar.MonthEnd(today)
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	if end.Before(start) {
		errs.Add("to", "to must not be before from")
		return time.Time{}, time.Time{}, errs.Err()
	}
	return start, end, nil
}

// yearMonthQuery reads year and month, defaulting to the month containing now.
func yearMonthQuery(r *http.Request, now time.Time) (int, int, error) {
	var errs validator.ValidationErrors
	year := optionalIntQuery(r, "year", &errs)
	month := optionalIntQuery(r, "month", &errs)
	if month != nil && (*month < 1 || *month > 12) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if err := errs.Err(); err != nil {
		return 0, 0, err
	}

	y, m := now.Year(), int(now.Month())
	if year != nil {
		y = *year
	}
	if month != nil {
		m = *month
	}
	return y, m, nil
}

// decodeOptionalJSON decodes the body into dst. An empty body leaves dst untouched.
func decodeOptionalJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// actionBy names the actor on approvals. Admin tokens may carry no employee id.
func actionBy(actor auth.Actor) string {
	if actor.EmployeeID != "" {
		return actor.EmployeeID
	}
	return string(actor.Role)
}
