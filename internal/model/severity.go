package model

// Severity levels for log entries and ticket priorities. Zero means the
// record predates the explicit field and its level must be derived from
// the label suffix.
const (
	SeverityUnknown  = 0
	SeverityLow      = 1
	SeverityMedium   = 2
	SeverityHigh     = 3
	SeverityCritical = 4
)

var severityNames = map[int]string{
	SeverityUnknown:  "Unknown",
	SeverityLow:      "Low",
	SeverityMedium:   "Medium",
	SeverityHigh:     "High",
	SeverityCritical: "Critical",
}

func SeverityName(s int) string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "Unknown"
}

// SeverityFromName maps a priority name to its numeric level. "Normal" is
// the legacy default priority and maps to Medium.
func SeverityFromName(name string) int {
	switch name {
	case "Low":
		return SeverityLow
	case "Medium", "Normal":
		return SeverityMedium
	case "High":
		return SeverityHigh
	case "Critical":
		return SeverityCritical
	}
	return SeverityUnknown
}

// LabelSeverity parses the trailing character of a label as a numeric
// severity. Labels follow the "<source>-<digit>" convention; anything
// else yields 0.
func LabelSeverity(label string) int {
	if label == "" {
		return 0
	}
	last := label[len(label)-1]
	if last < '0' || last > '9' {
		return 0
	}
	return int(last - '0')
}
