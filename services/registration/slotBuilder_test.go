package registration

import (
	"testing"
)

func TestBuildSlotsExample(t *testing.T) {
	got := BuildSlots(10*60, 11*60+30, 30, 10)
	want := []ClockRange{{600, 630}, {640, 670}}
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d: want %v got %v", i, want[i], got[i])
		}
	}
}

func TestBuildSlotsProperties(t *testing.T) {
	cases := []struct{ start, end, d, g int }{
		{540, 1020, 30, 10},
		{540, 1020, 45, 0},
		{600, 605, 5, 0},
		{0, 1440, 7, 3},
		{600, 700, 60, 15},
	}
	for _, c := range cases {
		slots := BuildSlots(c.start, c.end, c.d, c.g)
		for i, s := range slots {
			if s.End-s.Start != c.d {
				t.Fatalf("%+v slot %d has duration %d", c, i, s.End-s.Start)
			}
			if s.Start < c.start || s.End > c.end {
				t.Fatalf("%+v slot %d outside window", c, i)
			}
			if i > 0 && s.Start-slots[i-1].End != c.g {
				t.Fatalf("%+v slot %d gap %d", c, i, s.Start-slots[i-1].End)
			}
		}
		// Maximality: one more slot would not fit.
		if n := len(slots); n > 0 {
			if next := slots[n-1].End + c.g; next+c.d <= c.end {
				t.Fatalf("%+v not maximal, another slot fits at %d", c, next)
			}
		}
	}
}

func TestBuildSlotsDegenerate(t *testing.T) {
	tests := []struct {
		name                 string
		start, end, dur, gap int
		want                 int
	}{
		{"zero duration", 600, 700, 0, 10, 0},
		{"negative duration", 600, 700, -5, 10, 0},
		{"empty window", 700, 700, 30, 0, 0},
		{"inverted window", 700, 600, 30, 0, 0},
		{"negative gap is zero", 600, 660, 30, -10, 2},
		{"exact fit", 600, 630, 30, 10, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(BuildSlots(tc.start, tc.end, tc.dur, tc.gap)); got != tc.want {
				t.Fatalf("want %d slots, got %d", tc.want, got)
			}
		})
	}
}

func TestGenerateTimeSlotsFormatsAndAssignsIDs(t *testing.T) {
	slots, err := GenerateTimeSlots("10:00", "11:30", 30, 10)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].StartTime != "10:00" || slots[0].EndTime != "10:30" || slots[1].StartTime != "10:40" || slots[1].EndTime != "11:10" {
		t.Fatalf("unexpected slots %+v", slots)
	}
	if slots[0].ID == "" || slots[0].ID == slots[1].ID {
		t.Fatalf("expected distinct ids, got %q and %q", slots[0].ID, slots[1].ID)
	}

	if _, err := GenerateTimeSlots("9am", "11:00", 30, 10); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseClock(t *testing.T) {
	good := map[string]int{"00:00": 0, "09:05": 545, "9:05": 545, "23:59": 1439, "24:00": 1440}
	for in, want := range good {
		got, err := ParseClock(in)
		if err != nil || got != want {
			t.Fatalf("ParseClock(%q) = %d, %v; want %d", in, got, err, want)
		}
		if in != "9:05" && FormatClock(got) != in {
			t.Fatalf("FormatClock(%d) = %s", got, FormatClock(got))
		}
	}
	for _, bad := range []string{"", "10", "10:5", "25:00", "24:30", "aa:bb", "10:60"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("ParseClock(%q) should fail", bad)
		}
	}
}
