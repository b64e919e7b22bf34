package cointax

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{"iso", "2018-01-01", NewDate(2018, time.January, 1), false},
		{"lenient", "2018-1-1", NewDate(2018, time.January, 1), false},
		{"padded", "  2018-06-01 ", NewDate(2018, time.June, 1), false},
		{"garbage", "not-a-date", Date{}, true},
		{"empty", "", Date{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDate_Add(t *testing.T) {
	d := NewDate(2018, time.January, 1)
	if got := d.Add(365); got != NewDate(2019, time.January, 1) {
		t.Errorf("Add(365) = %s, want 2019-01-01", got)
	}
	if got := d.Add(-1); got != NewDate(2017, time.December, 31) {
		t.Errorf("Add(-1) = %s, want 2017-12-31", got)
	}
}

func TestDate_AddYears(t *testing.T) {
	d := NewDate(2020, time.February, 29)
	// normalization rolls the leap day over
	if got := d.AddYears(1); got != NewDate(2021, time.March, 1) {
		t.Errorf("AddYears(1) = %s, want 2021-03-01", got)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2019, time.July, 1)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != `"2019-07-01"` {
		t.Errorf("MarshalJSON() = %s, want \"2019-07-01\"", data)
	}
	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
