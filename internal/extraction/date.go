package extraction

import (
	"strconv"
	"time"
)

// ExtractDate finds the payment date. The long-form Vietnamese date
// ("ngày D tháng M năm Y") is tried first; then the general pattern
// list with a fixed order of numeric date formats.
func (e *Extractor) ExtractDate(text string) *time.Time {
	return e.extractDate(Normalize(text))
}

func (e *Extractor) extractDate(clean string) *time.Time {
	if m := e.patterns.vnDate.FindStringSubmatch(clean); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if t, ok := makeDate(year, month, day); ok {
			return &t
		}
		// Invalid calendar date: discard silently and keep scanning.
	}

	for _, re := range e.patterns.date {
		// Three-group patterns are the Vietnamese long form, already
		// handled above.
		if re.NumSubexp() == 3 {
			continue
		}
		m := re.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		for _, layout := range dateFormats {
			if t, err := time.Parse(layout, m[1]); err == nil {
				return &t
			}
		}
	}
	return nil
}

// makeDate builds a UTC date and reports whether day/month/year name a
// real calendar day. time.Date silently normalizes overflow (Feb 31
// becomes Mar 2), so validity is checked by round-tripping the parts.
func makeDate(year, month, day int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
