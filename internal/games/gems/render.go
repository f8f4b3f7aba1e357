package gems

import (
	"fmt"

	"github.com/vovakirdan/tui-gems/internal/core"
	"github.com/vovakirdan/tui-gems/internal/match3"
)

const (
	cellWidth    = 3  // Bracket, gem letter, bracket
	hudHeight    = 3  // Title, score line, spacer
	footerHeight = 2  // Status line, controls
	hudMinWidth  = 34 // Score and moves side by side
)

// gemColors maps each token of the reference palette to a screen color.
var gemColors = [match3.MaxPalette]core.Color{
	match3.Ruby:     core.ColorBrightRed,
	match3.Diamond:  core.ColorBrightWhite,
	match3.Amethyst: core.ColorMagenta,
	match3.Emerald:  core.ColorBrightGreen,
	match3.Topaz:    core.ColorOrange,
	match3.Sapphire: core.ColorBrightBlue,
	match3.Rose:     core.ColorBrightMagenta,
	match3.Citrine:  core.ColorBrightYellow,
}

// GemColor returns the display color of a token.
func GemColor(t match3.Token) core.Color {
	if int(t) < len(gemColors) {
		return gemColors[t]
	}
	return core.ColorDefault
}

// boardExtent returns the framed board size in screen cells.
func boardExtent(size int) (w, h int) {
	return size*cellWidth + 2, size + 2
}

// boardOrigin returns the top-left corner of the board frame.
func (g *Game) boardOrigin() (x, y int) {
	w, _ := boardExtent(g.cfg.Board.Size)
	return (g.screenW - w) / 2, hudHeight
}

// boardRect returns the clickable area inside the frame.
func (g *Game) boardRect() core.Rect {
	x, y := g.boardOrigin()
	size := g.cfg.Board.Size
	return core.NewRect(x+1, y+1, size*cellWidth, size)
}

// cellAt maps a screen position to a board cell.
func (g *Game) cellAt(x, y int) (match3.Coord, bool) {
	r := g.boardRect()
	if !r.Contains(x, y) {
		return match3.Coord{}, false
	}
	return match3.At(y-r.Y, (x-r.X)/cellWidth), true
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	bx, by := g.boardOrigin()
	bw, bh := boardExtent(g.cfg.Board.Size)

	g.renderHUD(dst, bx, bw)
	if g.engine != nil {
		g.renderBoard(dst, bx, by)
	}
	g.renderFooter(dst, by+bh)
	g.renderOverlays(dst, bx+bw/2, by+bh/2)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorYellow)
	dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorGray)
}

// renderHUD draws title, score and moves.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	left := boardX
	width := max(boardW, hudMinWidth)
	if boardW < hudMinWidth {
		left = (g.screenW - hudMinWidth) / 2
	}

	dst.DrawTextCentered(0, g.Title(), core.ColorBrightCyan)

	// Both counters follow the playback frame while one is shown
	score, moves := g.State().Score, g.Moves()
	if f := g.playback.current(); f != nil {
		score, moves = f.score, f.moves
	}
	dst.DrawTextWithColor(left, 1, fmt.Sprintf("Score: %d", score), core.ColorBrightYellow)

	movesStr := fmt.Sprintf("Moves: %d", moves)
	if n := g.movesLeftAt(moves); n >= 0 {
		movesStr = fmt.Sprintf("Moves: %d  Left: %d", moves, n)
	}
	movesX := max(left+width-len(movesStr), left)
	dst.DrawTextWithColor(movesX, 1, movesStr, core.ColorWhite)
}

// renderBoard draws the framed grid. During playback the frame's board is
// shown instead of the engine's settled board.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	bw, bh := boardExtent(g.cfg.Board.Size)
	dst.DrawBox(core.NewRect(boardX, boardY, bw, bh), core.ColorGray)

	board := g.engine.Board()
	f := g.playback.current()
	if f != nil {
		board = f.board
	}

	marks := make(map[match3.Coord]markKind)
	flash := make(map[match3.Coord]bool)
	if f != nil {
		for _, c := range f.marked {
			marks[c] = f.mark
		}
		if g.playback.flashing() {
			for _, c := range f.flash {
				flash[c] = true
			}
		}
	}

	sel, hasSel := g.engine.Selection()
	showCursor := f == nil && !g.gameOver

	size := board.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			c := match3.At(row, col)
			x := boardX + 1 + col*cellWidth
			y := boardY + 1 + row

			cell, _ := board.Get(c)
			glyph, color := '.', core.ColorGray
			if t, ok := cell.Token(); ok {
				glyph, color = rune(t.Letter()), GemColor(t)
			}
			dst.SetWithColor(x+1, y, glyph, color)

			open, shut, bc := ' ', ' ', core.ColorDefault
			switch {
			case marks[c] == markMatch:
				open, shut, bc = '*', '*', core.ColorBrightYellow
			case marks[c] == markSwap:
				open, shut, bc = '<', '>', core.ColorCyan
			case flash[c]:
				open, shut, bc = '+', '+', core.ColorBrightWhite
			case showCursor && c == g.cursor:
				open, shut, bc = '[', ']', core.ColorWhite
				if hasSel && c == sel {
					bc = core.ColorBrightCyan
				}
			case showCursor && hasSel && c == sel:
				open, shut, bc = '(', ')', core.ColorBrightCyan
			}
			dst.SetWithColor(x, y, open, bc)
			dst.SetWithColor(x+2, y, shut, bc)
		}
	}
}

// renderFooter draws the status line and control hints below the board.
func (g *Game) renderFooter(dst *core.Screen, y int) {
	dst.DrawTextCentered(y, g.status, core.ColorWhite)
	dst.DrawTextCentered(y+1, g.Controls(), core.ColorGray)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, centerX, centerY int) {
	switch {
	case g.paused:
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.failed:
		g.drawOverlay(dst, centerX, centerY, "BOARD ERROR", "Press R to restart")
	case g.gameOver:
		scoreStr := fmt.Sprintf("Final score: %d", g.State().Score)
		g.drawOverlay(dst, centerX, centerY, "OUT OF MOVES", scoreStr, "Press R to restart")
	}
}

// drawOverlay draws a centered text box.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBrightWhite)

	for i, line := range lines {
		dst.DrawTextWithColor(centerX-len(line)/2, box.Y+1+i, line, core.ColorBrightWhite)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/Click: Move | Space: Pick | R: New board | P: Pause | Q: Quit"
}
