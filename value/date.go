package value

import (
	"time"

	"github.com/golang-sql/civil"
)

// RelativeDate is a calendar-component interval: {years, months, days,
// hours, minutes, seconds, microseconds}. Arithmetic between an absolute
// and a relative date is defined in datearith.go.
type RelativeDate struct {
	Years, Months, Days               int
	Hours, Minutes, Seconds, Micros   int
}

// datePayload backs KindDate. Absolute dates are a civil.DateTime (the
// teacher's golang-sql/civil date/time pair, promoted here to a direct
// dependency) plus a microsecond remainder civil.DateTime cannot hold and
// a zone; relative dates carry a RelativeDate component set instead.
type datePayload struct {
	refCounted
	absolute bool
	dt       civil.DateTime // valid when absolute
	micros   int            // sub-second remainder, valid when absolute
	loc      *time.Location // valid when absolute
	rel      RelativeDate   // valid when !absolute
}

func (*datePayload) kind() Kind { return KindDate }

// AbsoluteDate constructs an absolute instant value.
func AbsoluteDate(t time.Time) Value {
	d := civil.DateOf(t)
	tm := civil.TimeOf(t)
	return Value{k: KindDate, p: &datePayload{
		absolute: true,
		dt:       civil.DateTime{Date: d, Time: tm},
		micros:   t.Nanosecond() / 1000,
		loc:      t.Location(),
		refCounted: refCounted{count: 1},
	}}
}

// RelativeDateValue constructs a relative (duration) date value.
func RelativeDateValue(r RelativeDate) Value {
	return Value{k: KindDate, p: &datePayload{absolute: false, rel: r, refCounted: refCounted{count: 1}}}
}

func (v Value) datePayload() *datePayload { return v.p.(*datePayload) }

// IsAbsoluteDate reports whether a Date value represents an absolute
// instant rather than a relative interval.
func (v Value) IsAbsoluteDate() bool {
	return v.k == KindDate && v.datePayload().absolute
}

// AsTime converts an absolute Date value to a time.Time. Open Question
// (SPEC_FULL.md §8): a relative date promotes via the zero epoch
// (1970-01-01T00:00:00Z) so comparisons remain total.
func (v Value) AsTime() time.Time {
	p := v.datePayload()
	if p.absolute {
		t := p.dt.In(p.loc)
		return t.Add(time.Duration(p.micros) * time.Microsecond)
	}
	epoch := time.Unix(0, 0).UTC()
	return addRelative(epoch, p.rel)
}

func (v Value) RelativeComponents() RelativeDate {
	p := v.datePayload()
	if p.absolute {
		return RelativeDate{}
	}
	return p.rel
}

func addRelative(t time.Time, r RelativeDate) time.Time {
	t = t.AddDate(r.Years, r.Months, r.Days)
	d := time.Duration(r.Hours)*time.Hour +
		time.Duration(r.Minutes)*time.Minute +
		time.Duration(r.Seconds)*time.Second +
		time.Duration(r.Micros)*time.Microsecond
	return t.Add(d)
}
