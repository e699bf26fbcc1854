package frame

import "testing"

func TestAppendRowValidation(t *testing.T) {
	f := New(Str("name"), Int("id"), Float("pct"), Boolean("home"))

	if err := f.AppendRow("a", int64(1), 0.5, true); err != nil {
		t.Fatalf("expected valid row, got %v", err)
	}
	if err := f.AppendRow("a", int64(1), 0.5); err == nil {
		t.Fatalf("expected arity error")
	}
	if err := f.AppendRow("a", "not-an-int", 0.5, true); err == nil {
		t.Fatalf("expected kind error")
	}
	if err := f.AppendRow(nil, nil, nil, nil); err != nil {
		t.Fatalf("expected nulls to be accepted, got %v", err)
	}
	if f.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", f.NumRows())
	}
}

func TestValue(t *testing.T) {
	f := New(Str("name"), Int("id"))
	if err := f.AppendRow("a", int64(7)); err != nil {
		t.Fatalf("append: %v", err)
	}

	v, ok := f.Value(0, "id")
	if !ok || v.(int64) != 7 {
		t.Fatalf("unexpected value %v ok=%v", v, ok)
	}
	if _, ok := f.Value(0, "missing"); ok {
		t.Fatalf("expected missing column to report !ok")
	}
	if _, ok := f.Value(5, "id"); ok {
		t.Fatalf("expected out-of-range row to report !ok")
	}
}

func TestSortBy(t *testing.T) {
	f := New(Str("date"), Int("id"))
	rows := [][]any{
		{"2024-12-02", int64(2)},
		{"2024-12-01", int64(9)},
		{"2024-12-01", int64(3)},
		{nil, int64(1)},
	}
	for _, r := range rows {
		if err := f.AppendRow(r...); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	f.SortBy("date", "id")

	want := [][]any{
		{nil, int64(1)},
		{"2024-12-01", int64(3)},
		{"2024-12-01", int64(9)},
		{"2024-12-02", int64(2)},
	}
	for i, w := range want {
		got := f.Row(i)
		if got[0] != w[0] || got[1] != w[1] {
			t.Fatalf("row %d: got %v want %v", i, got, w)
		}
	}
}
