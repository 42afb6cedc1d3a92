package selection

import (
	"slices"
	"testing"

	"github.com/five82/trawl/internal/column"
)

func TestIsSelected_AllCornerOrders(t *testing.T) {
	corners := [][2]Cell{
		{{1, 1}, {3, 4}},
		{{3, 4}, {1, 1}},
		{{1, 4}, {3, 1}},
		{{3, 1}, {1, 4}},
	}
	for _, cc := range corners {
		m := New(10, 10)
		m.PointerDown(cc[0], false)
		m.ranges[0].End = cc[1]
		for r := 0; r < 10; r++ {
			for c := 0; c < 10; c++ {
				want := r >= 1 && r <= 3 && c >= 1 && c <= 4
				if got := m.IsSelected(r, c); got != want {
					t.Fatalf("corners %v: IsSelected(%d,%d) = %v, want %v", cc, r, c, got, want)
				}
			}
		}
	}
}

func TestMove_ShiftDownExtendsFromAnchor(t *testing.T) {
	m := New(10, 5)
	m.PointerDown(Cell{Row: 2, Col: 1}, false)
	m.PointerUp()

	m.Move(1, 0, true)
	m.Move(1, 0, true)

	anchor, ok := m.Anchor()
	if !ok || anchor != (Cell{Row: 2, Col: 1}) {
		t.Fatalf("Anchor = %+v,%v want {2 1},true", anchor, ok)
	}
	active, _ := m.Active()
	want := Range{Start: Cell{2, 1}, End: Cell{4, 1}}
	if active != want {
		t.Fatalf("active = %+v, want %+v", active, want)
	}
}

func TestMove_PlainMoveCollapsesAndClamps(t *testing.T) {
	m := New(3, 2)
	if got := m.Move(0, 0, false); got != (Cell{}) {
		t.Fatalf("first Move = %+v, want origin", got)
	}
	m.Move(1, 0, true)
	if got := m.Move(5, 5, false); got != (Cell{Row: 2, Col: 1}) {
		t.Fatalf("Move = %+v, want {2 1}", got)
	}
	if rs := m.Ranges(); len(rs) != 1 || rs[0].Start != rs[0].End {
		t.Fatalf("Ranges = %+v, want a single cell", rs)
	}
	if got := m.Move(-9, -9, false); got != (Cell{}) {
		t.Fatalf("Move = %+v, want origin", got)
	}
}

func TestPointer_DragAndAutoScroll(t *testing.T) {
	m := New(100, 3)
	g := Geometry{
		Top:           2,
		Height:        20,
		ScrollTop:     10,
		RowHeight:     1,
		ColumnOffsets: column.Offsets([]int{10, 5, 20}),
		EdgeZone:      1,
	}
	m.PointerDown(Cell{Row: 12, Col: 0}, false)

	if dir := m.PointerMove(12, 7, g); dir != None {
		t.Fatalf("dir = %v, want None", dir)
	}
	active, _ := m.Active()
	if active.End != (Cell{Row: 15, Col: 1}) {
		t.Fatalf("End = %+v, want {15 1}", active.End)
	}
	if dir := m.PointerMove(0, 2.5, g); dir != Up {
		t.Fatalf("dir = %v, want Up", dir)
	}
	if dir := m.PointerMove(0, 21.5, g); dir != Down {
		t.Fatalf("dir = %v, want Down", dir)
	}

	m.PointerUp()
	if dir := m.PointerMove(0, 21.5, g); dir != None {
		t.Fatalf("dir after release = %v, want None", dir)
	}
}

func TestPointerDown_Additive(t *testing.T) {
	m := New(10, 10)
	m.PointerDown(Cell{1, 1}, false)
	m.PointerDown(Cell{5, 5}, true)
	if len(m.Ranges()) != 2 {
		t.Fatalf("Ranges len = %d, want 2", len(m.Ranges()))
	}
	m.PointerDown(Cell{7, 7}, false)
	if len(m.Ranges()) != 1 {
		t.Fatalf("Ranges len = %d, want 1", len(m.Ranges()))
	}
}

func TestBorderFlags_UnionOutline(t *testing.T) {
	m := New(10, 10)
	m.PointerDown(Cell{0, 0}, false)
	m.ranges[0].End = Cell{1, 1}
	m.PointerDown(Cell{2, 0}, true)
	m.ranges[1].End = Cell{2, 1}

	tests := []struct {
		row, col int
		want     Borders
	}{
		{0, 0, Borders{Top: true, Left: true}},
		{1, 1, Borders{Right: true}},
		{2, 0, Borders{Bottom: true, Left: true}},
		{5, 5, Borders{}},
	}
	for _, tt := range tests {
		if got := m.BorderFlags(tt.row, tt.col); got != tt.want {
			t.Fatalf("BorderFlags(%d,%d) = %+v, want %+v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestClampAndShift(t *testing.T) {
	m := New(100, 5)
	m.PointerDown(Cell{90, 4}, false)
	m.ranges[0].End = Cell{95, 4}

	m.Clamp(50, 3)
	r := m.Ranges()[0]
	if r.Start != (Cell{49, 2}) || r.End != (Cell{49, 2}) {
		t.Fatalf("after Clamp range = %+v, want {49 2}-{49 2}", r)
	}

	m = New(100, 5)
	m.PointerDown(Cell{1, 0}, false)
	m.PointerDown(Cell{10, 0}, true)
	m.ranges[1].End = Cell{12, 0}
	m.Shift(-5)
	rs := m.Ranges()
	if len(rs) != 1 || rs[0].Start.Row != 5 || rs[0].End.Row != 7 {
		t.Fatalf("after Shift ranges = %+v, want rows 5..7", rs)
	}

	m.Shift(-100)
	if !m.Empty() {
		t.Fatalf("selection should be empty after shifting everything out")
	}

	m = New(10, 5)
	m.PointerDown(Cell{3, 3}, false)
	m.Clamp(0, 5)
	if !m.Empty() {
		t.Fatalf("Clamp to zero rows should clear")
	}
}

func TestSelectedRowsAndCols(t *testing.T) {
	m := New(20, 6)
	m.PointerDown(Cell{5, 1}, false)
	m.ranges[0].End = Cell{3, 2}
	m.PointerDown(Cell{4, 4}, true)
	m.ranges[1].End = Cell{8, 4}

	if got, want := m.SelectedRows(), []int{3, 4, 5, 6, 7, 8}; !slices.Equal(got, want) {
		t.Fatalf("SelectedRows = %v, want %v", got, want)
	}
	if got, want := m.SelectedCols(), []int{1, 2, 4}; !slices.Equal(got, want) {
		t.Fatalf("SelectedCols = %v, want %v", got, want)
	}
	if !m.RowSelected(8) || m.RowSelected(9) {
		t.Fatalf("RowSelected mismatch")
	}
}
