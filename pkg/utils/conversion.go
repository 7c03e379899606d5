package utils

import (
	"strconv"
	"strings"
)

// StringToIntDefault mengubah string angka (query param) menjadi int.
// Kalau kosong, gagal parsing, atau < 1, balikin nilai default.
func StringToIntDefault(str string, def int) int {
	val, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil || val < 1 {
		return def
	}
	return val
}

// SplitCSV memecah "a, b,,c" jadi ["a" "b" "c"].
func SplitCSV(str string) []string {
	var out []string
	for _, part := range strings.Split(str, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
