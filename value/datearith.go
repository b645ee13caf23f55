package value

import "time"

// DateAdd implements absolute+relative=absolute, relative+relative=relative;
// absolute+absolute has no defined meaning and returns a copy of a (use
// DateSub for that family). Both operands must be Dates; per spec
// §3 Invariant 5 and §9's date-arithmetic Open Question (relative RHS
// promotes through the zero epoch only for ordering/comparison, never for
// +/- which always stay in their own domain).
func DateAdd(a, b Value) Value {
	ap, bp := a.datePayload(), b.datePayload()
	switch {
	case ap.absolute && !bp.absolute:
		return AbsoluteDate(addRelative(a.AsTime(), bp.rel))
	case !ap.absolute && bp.absolute:
		return AbsoluteDate(addRelative(b.AsTime(), ap.rel))
	case !ap.absolute && !bp.absolute:
		return RelativeDateValue(addComponents(ap.rel, bp.rel))
	default:
		// absolute + absolute has no defined meaning; a copy of a is
		// returned. The evaluator's += sends a non-date RHS to
		// DatePlusSeconds rather than here.
		return AbsoluteDate(a.AsTime())
	}
}

// DateSub implements absolute-absolute=relative and absolute-relative=absolute.
func DateSub(a, b Value) Value {
	ap, bp := a.datePayload(), b.datePayload()
	switch {
	case ap.absolute && bp.absolute:
		d := a.AsTime().Sub(b.AsTime())
		return RelativeDateValue(durationToRelative(d))
	case ap.absolute && !bp.absolute:
		neg := negateRelative(bp.rel)
		return AbsoluteDate(addRelative(a.AsTime(), neg))
	default:
		return RelativeDateValue(subComponents(ap.rel, bp.rel))
	}
}

// DatePlusSeconds implements `+=` on a Date with a non-date scalar RHS:
// the RHS, coerced to seconds, is added to the absolute value
// (SPEC_FULL.md §8).
func DatePlusSeconds(a Value, seconds float64) Value {
	whole := int(seconds)
	micros := int((seconds - float64(whole)) * 1_000_000)
	return AbsoluteDate(addRelative(a.AsTime(), RelativeDate{Seconds: whole, Micros: micros}))
}

func addComponents(a, b RelativeDate) RelativeDate {
	return normalizeRelative(RelativeDate{
		Years: a.Years + b.Years, Months: a.Months + b.Months, Days: a.Days + b.Days,
		Hours: a.Hours + b.Hours, Minutes: a.Minutes + b.Minutes, Seconds: a.Seconds + b.Seconds,
		Micros: a.Micros + b.Micros,
	})
}

func subComponents(a, b RelativeDate) RelativeDate {
	return normalizeRelative(RelativeDate{
		Years: a.Years - b.Years, Months: a.Months - b.Months, Days: a.Days - b.Days,
		Hours: a.Hours - b.Hours, Minutes: a.Minutes - b.Minutes, Seconds: a.Seconds - b.Seconds,
		Micros: a.Micros - b.Micros,
	})
}

func negateRelative(r RelativeDate) RelativeDate {
	return RelativeDate{-r.Years, -r.Months, -r.Days, -r.Hours, -r.Minutes, -r.Seconds, -r.Micros}
}

// normalizeRelative applies canonical carry: microseconds -> seconds ->
// minutes -> hours -> days (spec Invariant 5). Months/years are left
// uncarried since their day-length varies with calendar position.
func normalizeRelative(r RelativeDate) RelativeDate {
	carry := func(v, unit *int, base int) {
		*unit += *v / base
		*v %= base
	}
	carry(&r.Micros, &r.Seconds, 1_000_000)
	carry(&r.Seconds, &r.Minutes, 60)
	carry(&r.Minutes, &r.Hours, 60)
	carry(&r.Hours, &r.Days, 24)
	return r
}

func durationToRelative(d time.Duration) RelativeDate {
	total := d.Microseconds()
	micros := int(total % 1_000_000)
	totalSeconds := total / 1_000_000
	seconds := int(totalSeconds % 60)
	totalMinutes := totalSeconds / 60
	minutes := int(totalMinutes % 60)
	totalHours := totalMinutes / 60
	hours := int(totalHours % 24)
	days := int(totalHours / 24)
	return RelativeDate{Days: days, Hours: hours, Minutes: minutes, Seconds: seconds, Micros: micros}
}
