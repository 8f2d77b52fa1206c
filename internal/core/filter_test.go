package core

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func expenseOn(ts time.Time) Expense {
	return Expense{ServiceDescription: "x", Amount: Money{Cents: 100}, CreatedAt: ts}
}

func TestFilterByRangeInclusiveBounds(t *testing.T) {
	r := Range{From: day(2025, 6, 1), To: day(2025, 6, 30)}
	cases := []struct {
		name string
		ts   time.Time
		in   bool
	}{
		{"before range", time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC), false},
		{"first day", day(2025, 6, 1), true},
		{"mid range", day(2025, 6, 15), true},
		{"last day at 23:59:59", time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC), true},
		{"one day after", day(2025, 7, 1), false},
	}
	for _, tc := range cases {
		got := FilterByRange([]Expense{expenseOn(tc.ts)}, r)
		if tc.in && len(got) != 1 {
			t.Fatalf("%s: expected entry included", tc.name)
		}
		if !tc.in && len(got) != 0 {
			t.Fatalf("%s: expected entry excluded", tc.name)
		}
	}
}

func TestFilterByRangePreservesOrder(t *testing.T) {
	items := []Expense{
		{ServiceDescription: "a", Amount: Money{Cents: 1}, CreatedAt: day(2025, 6, 20)},
		{ServiceDescription: "b", Amount: Money{Cents: 1}, CreatedAt: day(2025, 6, 5)},
		{ServiceDescription: "c", Amount: Money{Cents: 1}, CreatedAt: day(2025, 6, 12)},
	}
	got := FilterByRange(items, Range{From: day(2025, 6, 1), To: day(2025, 6, 30)})
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ServiceDescription != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, got[i].ServiceDescription)
		}
	}
}

func TestFilterByRangeEmptyAndInverted(t *testing.T) {
	r := Range{From: day(2025, 6, 1), To: day(2025, 6, 30)}
	if got := FilterByRange([]Expense{}, r); len(got) != 0 {
		t.Fatalf("empty input should yield empty output")
	}

	// From after To: empty result, not an error.
	inverted := Range{From: day(2025, 6, 30), To: day(2025, 6, 1)}
	if got := FilterByRange([]Expense{expenseOn(day(2025, 6, 15))}, inverted); len(got) != 0 {
		t.Fatalf("inverted range should yield empty output, got %d", len(got))
	}
}

func TestFilterByRangeDoesNotMutateInput(t *testing.T) {
	items := []Expense{
		expenseOn(day(2025, 6, 10)),
		expenseOn(day(2025, 7, 10)),
	}
	before := make([]Expense, len(items))
	copy(before, items)

	FilterByRange(items, Range{From: day(2025, 6, 1), To: day(2025, 6, 30)})

	for i := range items {
		if items[i] != before[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestRangeValidate(t *testing.T) {
	if err := (Range{From: day(2025, 6, 1), To: day(2025, 6, 30)}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Range{To: day(2025, 6, 30)}).Validate(); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if err := (Range{From: day(2025, 6, 1)}).Validate(); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
