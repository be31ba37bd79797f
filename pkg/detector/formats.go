package detector

import "regexp"

// TimestampFormat is a known transcript timestamp format. PatternStr matches
// the text between the leading brackets and has no capture groups, so it
// can be used as a locale timestamp_pattern as is.
type TimestampFormat struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled line prefix (set during init)
	PatternStr string         // Pattern string for config output
	Layout     string         // Go time layout for parsing
	Examples   []string       // Example timestamps
	Ambiguous  bool           // True if format has date ordering ambiguity (MM/DD vs DD/MM)
}

// DefaultFormats returns the built-in transcript formats to detect.
// Formats sharing a pattern are ordered by preference: the first one wins a tie.
func DefaultFormats() []*TimestampFormat {
	formats := []*TimestampFormat{
		{
			Name:       "DD/MM/YY, 24h with seconds",
			PatternStr: `\d{2}/\d{2}/\d{2}, \d{2}:\d{2}:\d{2}`,
			Layout:     "02/01/06, 15:04:05",
			Examples:   []string{"15/08/23, 14:30:05"},
			Ambiguous:  true,
		},
		{
			Name:       "MM/DD/YY, 24h with seconds",
			PatternStr: `\d{2}/\d{2}/\d{2}, \d{2}:\d{2}:\d{2}`,
			Layout:     "01/02/06, 15:04:05",
			Examples:   []string{"08/15/23, 14:30:05"},
			Ambiguous:  true,
		},
		{
			Name:       "DD/MM/YYYY, 24h with seconds",
			PatternStr: `\d{2}/\d{2}/\d{4}, \d{2}:\d{2}:\d{2}`,
			Layout:     "02/01/2006, 15:04:05",
			Examples:   []string{"15/08/2023, 14:30:05"},
			Ambiguous:  true,
		},
		{
			Name:       "M/D/YY, 12h with seconds",
			PatternStr: `\d{1,2}/\d{1,2}/\d{2}, \d{1,2}:\d{2}:\d{2} [AP]M`,
			Layout:     "1/2/06, 3:04:05 PM",
			Examples:   []string{"8/15/23, 2:30:05 PM"},
		},
		{
			Name:       "D/M/YY, 24h without seconds",
			PatternStr: `\d{1,2}/\d{1,2}/\d{2}, \d{2}:\d{2}`,
			Layout:     "2/1/06, 15:04",
			Examples:   []string{"15/8/23, 14:30"},
			Ambiguous:  true,
		},
		{
			Name:       "YYYY-MM-DD, 24h with seconds",
			PatternStr: `\d{4}-\d{2}-\d{2}, \d{2}:\d{2}:\d{2}`,
			Layout:     "2006-01-02, 15:04:05",
			Examples:   []string{"2023-08-15, 14:30:05"},
		},
	}

	for _, f := range formats {
		f.Pattern = regexp.MustCompile(`^\[(` + f.PatternStr + `)\] `)
	}

	return formats
}
