// Package encode maps a few textual meter codes to compact numeric codes
// for JSON consumers and checks field names before they are emitted.
package encode

import "strconv"

const (
	NameTariffOption = "OPTARIF"
	NameSchedule     = "HHPHC"
	NameTariffPeriod = "PTEC"
)

// Unmatched input of an encoded field.
const Default = "0"

// first match wins, order matters
var tariffOptionPrefix = []struct {
	prefix string
	code   string
}{
	{"BAS", "1"}, // BASE
	{"HC.", "2"}, // HC..
	{"EJP", "3"}, // EJP.
	{"BBR", "4"}, // BBRx tempo
}

var tariffPeriod = map[string]string{
	"TH..": "1",
	"HC..": "2",
	"HP..": "3",
	"HN..": "4",
	"PM..": "5",
	"HCJB": "6",
	"HCJW": "7",
	"HCJR": "8",
	"HPJB": "9",
	"HPJW": "10",
	"HPJR": "11",
}

// Encode returns emitted value for field name.
// Fields other than OPTARIF, HHPHC, PTEC pass through unchanged.
func Encode(name, raw string) string {
	switch name {
	case NameTariffOption:
		return TariffOption(raw)
	case NameSchedule:
		return Schedule(raw)
	case NameTariffPeriod:
		return TariffPeriod(raw)
	}
	return raw
}

func TariffOption(raw string) string {
	for _, e := range tariffOptionPrefix {
		if len(raw) >= len(e.prefix) && raw[:len(e.prefix)] == e.prefix {
			return e.code
		}
	}
	return Default
}

// Schedule is ASCII code of HHPHC letter (A..Y).
func Schedule(raw string) string {
	if raw == "" {
		return Default
	}
	return strconv.Itoa(int(raw[0]))
}

func TariffPeriod(raw string) string {
	if code, ok := tariffPeriod[raw]; ok {
		return code
	}
	return Default
}
