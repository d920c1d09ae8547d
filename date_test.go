package internlog

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in       cell
		date1904 bool
		out      string
	}{
		{textCell("2025-01-02"), false, "2025-01-02"},
		{numberCell("45658", 45658), false, "2025-01-01"},
		{numberCell("45658.75", 45658.75), false, "2025-01-01"},
		{numberCell("44196", 44196), true, "2025-01-01"},
		{numberCell("1", 1), false, "1900-01-01"},
		{numberCell("1.5", 1.5), false, "1900-01-01"},
		{numberCell("59", 59), false, "1900-02-28"},
		{numberCell("60", 60), false, "1900-02-29"},
		{numberCell("61", 61), false, "1900-03-01"},
		{numberCell("1", 1), true, "1904-01-02"},
		{textCell("2025/01/05"), false, "2025-01-05"},
		{textCell("January 6, 2025"), false, "2025-01-06"},
		{textCell("2025-01-07T23:30:00-02:00"), false, "2025-01-08"},
		{textCell("the day after"), false, "the day after"},
		{textCell(""), false, ""},
		{textCell("  "), false, ""},
	}

	for _, tc := range cases {
		if res := normalizeDate(tc.in, tc.date1904); res != tc.out {
			t.Errorf("normalizeDate(%q, %v) -> %q, expected %q", tc.in.text, tc.date1904, res, tc.out)
		}
	}
}

func TestCellBlank(t *testing.T) {
	cases := []struct {
		in    cell
		blank bool
	}{
		{cell{}, true},
		{textCell(" \t"), true},
		{numberCell("0", 0), true},
		{textCell("0"), false},
		{numberCell("1", 1), false},
		{textCell("x"), false},
	}

	for _, tc := range cases {
		if res := tc.in.blank(); res != tc.blank {
			t.Errorf("%+v.blank() -> %v, expected %v", tc.in, res, tc.blank)
		}
	}
}
