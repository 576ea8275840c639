package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

// cellX is the first column of grid column col.
func cellX(col int) int {
	return gridLeft + col*(cellWidth+cellGap)
}

func TestApp_ClickActiveSquareAdvances(t *testing.T) {
	app := createTestApp(t)
	addHabit(t, app, "Read")

	app.Update(click(cellX(0), gridTop))
	app.Update(click(cellX(1)+1, gridTop))

	cur, _ := app.ctrl.State().Current()
	if cur.CurrentIndex != 2 {
		t.Errorf("CurrentIndex = %d, want 2", cur.CurrentIndex)
	}
}

func TestApp_ClickElsewhereIsNoop(t *testing.T) {
	app := createTestApp(t)
	addHabit(t, app, "Read")

	for _, pos := range [][2]int{
		{cellX(5), gridTop},             // locked square
		{cellX(0), gridTop + 1},         // locked square on the next row
		{cellX(0) + cellWidth, gridTop}, // gap after the active square
		{0, gridTop},                    // margin
		{cellX(0), 0},                   // title bar
		{cellX(15), gridTop},            // past the last column
	} {
		app.Update(click(pos[0], pos[1]))
	}

	cur, _ := app.ctrl.State().Current()
	if cur.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", cur.CurrentIndex)
	}
}

func TestApp_ClickSecondRow(t *testing.T) {
	app := createTestApp(t)
	addHabit(t, app, "Read")
	for i := 0; i < 15; i++ {
		app.Update(keyType(tea.KeySpace))
	}

	app.Update(click(cellX(0), gridTop+1))

	cur, _ := app.ctrl.State().Current()
	if cur.CurrentIndex != 16 {
		t.Errorf("CurrentIndex = %d, want 16", cur.CurrentIndex)
	}
}

func TestApp_NarrowTerminalWrapsGrid(t *testing.T) {
	app := createTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 20, Height: 30})
	addHabit(t, app, "Read")

	if got := app.columns(); got != 6 {
		t.Fatalf("columns = %d, want 6", got)
	}
	for i := 0; i < 6; i++ {
		app.Update(keyType(tea.KeySpace))
	}
	if idx, ok := app.dayAt(cellX(0), gridTop+1); !ok || idx != 6 {
		t.Errorf("dayAt = %d, %v; want 6, true", idx, ok)
	}
}

func TestApp_MouseWheelNavigates(t *testing.T) {
	app := createTestApp(t)
	addHabit(t, app, "Read")
	addHabit(t, app, "Walk")

	app.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if got := app.ctrl.State().SelectedIndex; got != 0 {
		t.Errorf("SelectedIndex = %d, want 0", got)
	}
	app.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if got := app.ctrl.State().SelectedIndex; got != 1 {
		t.Errorf("SelectedIndex = %d, want 1", got)
	}
}

func TestApp_MouseClosesHelp(t *testing.T) {
	app := createTestApp(t)
	addHabit(t, app, "Read")
	app.showHelp = true

	app.Update(click(cellX(0), gridTop))

	if app.showHelp {
		t.Error("click should close help")
	}
	cur, _ := app.ctrl.State().Current()
	if cur.CurrentIndex != 0 {
		t.Error("the closing click must not reach the grid")
	}
}

func TestApp_MouseReleaseIgnored(t *testing.T) {
	app := createTestApp(t)
	addHabit(t, app, "Read")

	app.Update(tea.MouseMsg{X: cellX(0), Y: gridTop, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	cur, _ := app.ctrl.State().Current()
	if cur.CurrentIndex != 0 {
		t.Error("release events should not advance")
	}
}
