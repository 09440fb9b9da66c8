package almanac

import (
	"time"

	"panchangreel/internal/textutil"
)

type panchangData struct {
	Sunrise   string `json:"sunrise"`
	Sunset    string `json:"sunset"`
	Tithi     []struct {
		Name   string `json:"name"`
		Paksha string `json:"paksha"`
	} `json:"tithi"`
	Nakshatra []struct {
		Name string `json:"name"`
		Lord *struct {
			Name string `json:"name"`
		} `json:"lord"`
	} `json:"nakshatra"`
}

type muhuratData struct {
	Muhurat []struct {
		Name   string `json:"name"`
		Type   string `json:"type"`
		Period []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"period"`
	} `json:"muhurat"`
}

func buildDay(at time.Time, panchang panchangData, good, bad muhuratData) Day {
	day := Day{
		Date:         at,
		Year:         at.Year(),
		Weekday:      at.Weekday().String(),
		DateText:     at.Format(dateLayout),
		Sunrise:      formatClock(panchang.Sunrise),
		Sunset:       formatClock(panchang.Sunset),
		Auspicious:   buildMuhurats(good),
		Inauspicious: buildMuhurats(bad),
	}
	if len(panchang.Tithi) > 0 {
		day.Tithi = &Tithi{Name: panchang.Tithi[0].Name, Paksha: panchang.Tithi[0].Paksha}
	}
	if len(panchang.Nakshatra) > 0 {
		n := panchang.Nakshatra[0]
		day.Nakshatra = &Nakshatra{Name: n.Name}
		if n.Lord != nil {
			day.Nakshatra.Lord = n.Lord.Name
		}
	}
	return day
}

func buildMuhurats(data muhuratData) []Muhurat {
	if len(data.Muhurat) == 0 {
		return nil
	}
	out := make([]Muhurat, 0, len(data.Muhurat))
	for _, m := range data.Muhurat {
		muhurat := Muhurat{Name: textutil.TitleCase(m.Name), Type: m.Type, Periods: make([]Period, 0, len(m.Period))}
		for _, p := range m.Period {
			muhurat.Periods = append(muhurat.Periods, Period{Start: formatClock(p.Start), End: formatClock(p.End)})
		}
		out = append(out, muhurat)
	}
	return out
}

// formatClock renders an ISO 8601 timestamp as a 12-hour clock time in its
// own offset. Unparseable values are returned unchanged.
func formatClock(value string) string {
	if value == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format(timeLayout)
}
