package ui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"ticketdesk/pkg/model"
)

// boardColumns are the board's columns in workflow order.
var boardColumns = model.Statuses

// BoardModel shows the current page as a board with one column per status.
type BoardModel struct {
	columns     [][]model.Ticket
	focusedCol  int
	selectedRow []int // Store selection for each column
	theme       Theme
}

var priorityRank = map[model.Priority]int{
	model.PriorityHigh:   0,
	model.PriorityMedium: 1,
	model.PriorityLow:    2,
}

// sortTicketsByPriorityAndDate sorts tickets by priority (highest first) then by creation date (newest first)
func sortTicketsByPriorityAndDate(tickets []model.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		pi, pj := priorityRank[tickets[i].Priority], priorityRank[tickets[j].Priority]
		if pi != pj {
			return pi < pj
		}
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}

// NewBoardModel creates a board from the given tickets
func NewBoardModel(tickets []model.Ticket, theme Theme) BoardModel {
	b := BoardModel{
		columns:     make([][]model.Ticket, len(boardColumns)),
		selectedRow: make([]int, len(boardColumns)),
		theme:       theme,
	}
	b.SetTickets(tickets)
	return b
}

// SetTickets redistributes tickets, typically after a refresh
func (b *BoardModel) SetTickets(tickets []model.Ticket) {
	cols := make([][]model.Ticket, len(boardColumns))
	for _, t := range tickets {
		for i, st := range boardColumns {
			if t.Status == st {
				cols[i] = append(cols[i], t)
				break
			}
		}
	}
	for i := range cols {
		sortTicketsByPriorityAndDate(cols[i])
	}
	b.columns = cols

	// Sanitize selection to prevent out-of-bounds
	for i := range b.columns {
		if b.selectedRow[i] >= len(b.columns[i]) {
			b.selectedRow[i] = max(0, len(b.columns[i])-1)
		}
	}
}

func (b *BoardModel) MoveDown() {
	count := len(b.columns[b.focusedCol])
	if count > 0 && b.selectedRow[b.focusedCol] < count-1 {
		b.selectedRow[b.focusedCol]++
	}
}

func (b *BoardModel) MoveUp() {
	if b.selectedRow[b.focusedCol] > 0 {
		b.selectedRow[b.focusedCol]--
	}
}

func (b *BoardModel) MoveRight() {
	if b.focusedCol < len(b.columns)-1 {
		b.focusedCol++
	}
}

func (b *BoardModel) MoveLeft() {
	if b.focusedCol > 0 {
		b.focusedCol--
	}
}

// SelectedTicket returns the currently selected ticket, or nil if none
func (b *BoardModel) SelectedTicket() *model.Ticket {
	col := b.columns[b.focusedCol]
	row := b.selectedRow[b.focusedCol]
	if len(col) > 0 && row < len(col) {
		return &col[row]
	}
	return nil
}

// ColumnCount returns the number of tickets in a column
func (b *BoardModel) ColumnCount(col int) int {
	if col >= 0 && col < len(b.columns) {
		return len(b.columns[col])
	}
	return 0
}

// View renders the board
func (b BoardModel) View(width, height int) string {
	n := len(b.columns)
	colWidth := max(20, (width-2*n)/n)
	colHeight := max(5, height-3)
	t := b.theme

	var renderedCols []string
	for colIdx, status := range boardColumns {
		isFocused := b.focusedCol == colIdx
		tickets := b.columns[colIdx]
		color := t.StatusColor(status)

		headerStyle := t.Renderer.NewStyle().Width(colWidth).Align(lipgloss.Center).Bold(true)
		if isFocused {
			headerStyle = headerStyle.Background(color).Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"})
		} else {
			headerStyle = headerStyle.Foreground(color)
		}
		header := headerStyle.Render(fmt.Sprintf("%s (%d)", StatusLabel(status), len(tickets)))

		// Each card takes three lines; keep the selected card visible.
		visibleRows := max(1, (colHeight-2)/3)
		sel := b.selectedRow[colIdx]
		start := 0
		if sel >= visibleRows {
			start = sel - visibleRows + 1
		}
		end := min(len(tickets), start+visibleRows)

		var rows []string
		for rowIdx := start; rowIdx < end; rowIdx++ {
			ticket := tickets[rowIdx]
			rowStyle := t.Renderer.NewStyle().
				Width(colWidth).
				Padding(0, 1).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(t.Border)
			if isFocused && rowIdx == sel {
				rowStyle = rowStyle.Background(t.Highlight).BorderForeground(t.Primary)
			}

			line1 := fmt.Sprintf("%s %s",
				t.Renderer.NewStyle().Bold(true).Foreground(t.Secondary).Render(fmt.Sprintf("#%d", ticket.ID)),
				GetPriorityIcon(ticket.Priority),
			)
			line2 := t.Renderer.NewStyle().Foreground(t.Text).Render(truncateRunes(ticket.Title, max(10, colWidth-4), "…"))
			rows = append(rows, rowStyle.Render(line1+"\n"+line2))
		}

		if len(tickets) > visibleRows {
			rows = append(rows, t.Renderer.NewStyle().Width(colWidth).Align(lipgloss.Center).Foreground(t.Secondary).
				Render(fmt.Sprintf("↕ %d/%d", sel+1, len(tickets))))
		}

		colStyle := t.Renderer.NewStyle().Width(colWidth).Height(colHeight).Border(lipgloss.RoundedBorder())
		if isFocused {
			colStyle = colStyle.BorderForeground(t.Primary)
		} else {
			colStyle = colStyle.BorderForeground(t.Secondary)
		}

		content := lipgloss.JoinVertical(lipgloss.Left, rows...)
		renderedCols = append(renderedCols, lipgloss.JoinVertical(lipgloss.Center, header, colStyle.Render(content)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)
}
