package almanac

import (
	"time"

	"panchangreel/internal/textutil"
)

// Day is the formatted almanac for one date, ready to be turned into reel
// text. Times are rendered as "03:04 PM" in the offset the API returned.
type Day struct {
	Date         time.Time  `json:"-"`
	Year         int        `json:"year"`
	Weekday      string     `json:"day"`
	DateText     string     `json:"date"`
	Sunrise      string     `json:"sunrise,omitempty"`
	Sunset       string     `json:"sunset,omitempty"`
	Tithi        *Tithi     `json:"tithi,omitempty"`
	Nakshatra    *Nakshatra `json:"nakshatra,omitempty"`
	Auspicious   []Muhurat  `json:"auspicious_periods,omitempty"`
	Inauspicious []Muhurat  `json:"inauspicious_periods,omitempty"`
}

// Tithi is the lunar day in effect.
type Tithi struct {
	Name   string `json:"name"`
	Paksha string `json:"paksha"`
}

// Nakshatra is the lunar mansion in effect and its ruling planet.
type Nakshatra struct {
	Name string `json:"name"`
	Lord string `json:"lord"`
}

// Muhurat is a named window, possibly spanning several periods in the day.
type Muhurat struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Periods []Period `json:"periods"`
}

// Period is a formatted start and end time.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

const (
	timeLayout   = "03:04 PM"
	dateLayout   = "02 January 2006"
	notAvailable = "N/A"
)

// Lines formats day as reel text. Sections are separated by blank lines and
// each section opens with a line the default heading keywords recognize.
func Lines(day Day) []string {
	lines := []string{
		"📅 " + day.DateText,
		"🌅 Sunrise: " + textutil.Or(day.Sunrise, notAvailable),
		"🌇 Sunset: " + textutil.Or(day.Sunset, notAvailable),
		"",
	}
	if day.Tithi != nil {
		lines = append(lines, "📖 Tithi: "+day.Tithi.Name, "   "+day.Tithi.Paksha, "")
	}
	if day.Nakshatra != nil {
		lines = append(lines, "⭐ Nakshatra: "+day.Nakshatra.Name)
		if day.Nakshatra.Lord != "" {
			lines = append(lines, "   Lord: "+day.Nakshatra.Lord)
		}
		lines = append(lines, "")
	}
	if len(day.Auspicious) > 0 {
		lines = append(lines, "✅ Auspicious Periods:")
		lines = appendMuhurats(lines, day.Auspicious)
		lines = append(lines, "")
	}
	if len(day.Inauspicious) > 0 {
		lines = append(lines, "❌ Avoid These Times:")
		lines = appendMuhurats(lines, day.Inauspicious)
	}
	return lines
}

func appendMuhurats(lines []string, muhurats []Muhurat) []string {
	for _, m := range muhurats {
		lines = append(lines, "   "+m.Name)
		for _, p := range m.Periods {
			lines = append(lines, "   "+p.Start+" - "+p.End)
		}
	}
	return lines
}
