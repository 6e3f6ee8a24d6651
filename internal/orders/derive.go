package orders

// DeriveConfirmation computes the per-order confirmation state from the
// marker cells of every staff line. Staff respond asynchronously, so
// the rules must distinguish "nobody responded yet", "somebody
// responded but the set is mixed" and "everybody explicitly cancelled"
// using only raw markers. First matching rule wins.
func DeriveConfirmation(lines []StaffLine) ConfirmState {
	if len(lines) == 0 {
		return Unconfirmed
	}

	// 1. Every marker X on every line, shared status carries the
	//    cancellation literal: the whole order was cancelled.
	allCancelled := true
	for _, l := range lines {
		for _, m := range l.Markers {
			if m != MarkerCancelled {
				allCancelled = false
			}
		}
		if l.Status != StatusCancelled {
			allCancelled = false
		}
	}
	if allCancelled {
		return Cancelled
	}

	// 2. Primary marker V everywhere, secondary markers and status
	//    untouched: the just-submitted order nobody has reviewed yet.
	allFresh := true
	for _, l := range lines {
		if len(l.Markers) == 0 || l.Markers[0] != MarkerAgreed {
			allFresh = false
			break
		}
		for _, m := range l.Markers[1:] {
			if m != "" {
				allFresh = false
			}
		}
		if l.Status != "" {
			allFresh = false
		}
	}
	if allFresh {
		return Unconfirmed
	}

	// 3. Any marker in the response vocabulary: at least one staff
	//    member has responded, even if the set is mixed.
	for _, l := range lines {
		for _, m := range l.Markers {
			switch m {
			case MarkerAgreed, MarkerCancelled, MarkerDeclined:
				return Confirmed
			}
		}
	}

	return Unconfirmed
}

// PaymentStatus derives the order-level payment status: paid as soon as
// any line's status cell carries the paid literal. The status cell is
// authoritative; payment state is the one piece of order state that IS
// persisted.
func PaymentStatus(lines []StaffLine) string {
	for _, l := range lines {
		if l.Status == StatusPaid {
			return StatusPaid
		}
	}
	return "Chưa thanh toán"
}

// IsPaid reports whether any of the order's rows carries the paid
// literal in the schema's status column.
func IsPaid(group []Row, schema ColumnSchema) bool {
	for _, row := range group {
		if row.Status(schema.Status) == StatusPaid {
			return true
		}
	}
	return false
}

// IsReviewed reads the review status off the group's first row, per the
// first-row-carries-aggregate-fields convention.
func IsReviewed(group []Row, schema ColumnSchema) bool {
	return len(group) > 0 && group[0].Status(schema.Review) == StatusReviewed
}

// HasAnyResponse reports whether any line's primary marker is
// populated. The manager list hides orders nobody has touched.
func HasAnyResponse(group []Row, schema ColumnSchema) bool {
	if len(schema.Markers) == 0 {
		return false
	}
	for _, row := range group {
		if row.Status(schema.Markers[0]) != "" {
			return true
		}
	}
	return false
}

// StaffLines extracts every line of a group under the schema.
func StaffLines(group []Row, schema ColumnSchema) []StaffLine {
	lines := make([]StaffLine, len(group))
	for i, row := range group {
		lines[i] = StaffLineOf(row, schema)
	}
	return lines
}
