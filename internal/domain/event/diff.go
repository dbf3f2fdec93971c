package event

import "time"

// Diff compares every field present in req against current and returns the
// changes in field order. Comparison is on raw values; From/To are display
// strings, with datetimes rendered in loc.
func Diff(current *Snapshot, req EditRequest, loc *time.Location) []FieldChange {
	changes := make([]FieldChange, 0, 6)

	if req.Name != nil && *req.Name != current.Name {
		changes = append(changes, FieldChange{Field: FieldName, From: current.Name, To: *req.Name})
	}
	if req.StartDate != nil && !sameInstant(current.StartDate, req.StartDate) {
		changes = append(changes, FieldChange{
			Field: FieldStartDate,
			From:  FormatDateTime(current.StartDate, loc),
			To:    FormatDateTime(req.StartDate, loc),
		})
	}
	changes = appendStringChange(changes, FieldAddress, current.Address, req.Address)
	changes = appendStringChange(changes, FieldCity, current.City, req.City)
	changes = appendStringChange(changes, FieldState, current.State, req.State)
	changes = appendStringChange(changes, FieldDescription, current.Description, req.Description)

	return changes
}

func appendStringChange(changes []FieldChange, field, current string, next *string) []FieldChange {
	if next == nil || *next == current {
		return changes
	}
	return append(changes, FieldChange{Field: field, From: current, To: *next})
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	// Postgres keeps microseconds.
	return a.Truncate(time.Microsecond).Equal(b.Truncate(time.Microsecond))
}
