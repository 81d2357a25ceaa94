package classify

import "time"

// Age computes whole elapsed years between the raw birth date and today,
// one less when the birthday has not been reached yet this year. today is
// injected by the caller so classification passes are reproducible.
func Age(birthRaw any, today time.Time, loc *time.Location) (int, bool) {
	birth, ok := ParseAnyDate(birthRaw, loc)
	if !ok {
		return 0, false
	}
	years := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		years--
	}
	return years, true
}
