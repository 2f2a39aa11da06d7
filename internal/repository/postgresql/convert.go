package postgresql

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/jackc/pgx/v5/pgtype"
)

func toPgTime(t calendar.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) calendar.TimeOfDay {
	return calendar.TimeOfDay(time.Duration(t.Microseconds) * time.Microsecond)
}

func where(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}
