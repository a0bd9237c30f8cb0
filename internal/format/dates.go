package format

import (
	"fmt"
	"strings"
)

// ISOToBR converts "YYYY-MM-DD" to "DD/MM/YYYY". Anything that does not
// look like an ISO date passes through unchanged.
func ISOToBR(data string) string {
	if data == "" || !strings.Contains(data, "-") {
		return data
	}
	parts := strings.SplitN(data, "-", 3)
	if len(parts) != 3 {
		return data
	}
	return fmt.Sprintf("%s/%s/%s", parts[2], parts[1], parts[0])
}

// BRToISO converts "DD/MM/YYYY" to "YYYY-MM-DD", zero-padding day and
// month. Anything without a slash passes through unchanged.
func BRToISO(data string) string {
	if data == "" || !strings.Contains(data, "/") {
		return data
	}
	parts := strings.SplitN(data, "/", 3)
	if len(parts) != 3 {
		return data
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[1]), pad2(parts[0]))
}

// NormalizeISO zero-pads the month and day of an ISO date so that
// "2024-1-5" and "2024-01-05" compare equal.
func NormalizeISO(data string) string {
	parts := strings.SplitN(data, "-", 3)
	if len(parts) != 3 {
		return data
	}
	return fmt.Sprintf("%s-%s-%s", parts[0], pad2(parts[1]), pad2(parts[2]))
}

// ToInputDate accepts either representation and yields the ISO form used by
// date inputs; unrecognized input yields "".
func ToInputDate(data string) string {
	switch {
	case data == "":
		return ""
	case strings.Contains(data, "-"):
		return data
	case strings.Contains(data, "/"):
		return BRToISO(data)
	default:
		return ""
	}
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
