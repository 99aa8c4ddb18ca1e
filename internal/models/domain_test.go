package models

import "testing"

func TestParseAttendanceStatus(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  AttendanceStatus
		ok    bool
	}{
		{name: "lowercase present", input: "present", want: AttendancePresent, ok: true},
		{name: "lowercase absent", input: "absent", want: AttendanceAbsent, ok: true},
		{name: "lowercase late", input: "late", want: AttendanceLate, ok: true},
		{name: "canonical casing", input: "Present", want: AttendancePresent, ok: true},
		{name: "uppercase", input: "LATE", want: AttendanceLate, ok: true},
		{name: "surrounding whitespace", input: " absent ", want: AttendanceAbsent, ok: true},
		{name: "unknown", input: "tardy", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAttendanceStatus(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseAttendanceStatus(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseAttendanceStatus(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDeliveryStatus(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  DeliveryStatus
		ok    bool
	}{
		{name: "on_time", input: "on_time", want: DeliveryOnTime, ok: true},
		{name: "uppercase", input: "LATE", want: DeliveryLate, ok: true},
		{name: "very_late", input: "very_late", want: DeliveryVeryLate, ok: true},
		{name: "not_delivered", input: "not_delivered", want: DeliveryNotDelivered, ok: true},
		{name: "unknown", input: "missing", ok: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDeliveryStatus(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDeliveryStatus(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseDeliveryStatus(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
