package exporter

import "strconv"

// FormatFloat renders a pointer-valued amount for CSV output.
// Missing values render as the empty string, preserving the
// missing-versus-zero distinction on disk.
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatFloatPrec renders a pointer-valued amount with a fixed number
// of decimal places.
func FormatFloatPrec(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

// FormatBool renders a boolean the way pandas writes it in CSV output.
func FormatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
