package periods

import "time"

// Period is a bounded date range owned by one user. Whether a period is
// closed is never stored here; it is derived from the presence of an
// active closing transaction.
type Period struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contains reports whether date falls inside the period bounds,
// inclusive on both ends.
func (p Period) Contains(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	return !day.Before(p.StartsAt.Truncate(24*time.Hour)) && !day.After(p.EndsAt.Truncate(24*time.Hour))
}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName formats the conventional period name for a calendar month,
// e.g. "Enero 2025".
func MonthName(t time.Time) string {
	return monthNames[t.Month()-1] + " " + t.Format("2006")
}

// MonthBounds returns the first and last day of t's calendar month.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}
