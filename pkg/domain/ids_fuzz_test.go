package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseStudentID checks parsing never panics and accepted IDs round-trip.
func FuzzParseStudentID(f *testing.F) {
	f.Add("")
	f.Add("stu-1")
	f.Add("'; DROP TABLE students;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("stu-1\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseStudentID(input)
		if err == nil {
			roundTrip, err2 := ParseStudentID(id.String())
			if err2 != nil {
				t.Errorf("valid id failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed id value")
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}
