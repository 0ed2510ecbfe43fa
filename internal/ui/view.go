package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	kerrors "github.com/atomicstack/kafka2i/internal/errors"
	"github.com/atomicstack/kafka2i/internal/format/message"
	"github.com/atomicstack/kafka2i/internal/format/table"
	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/menu"
	"github.com/atomicstack/kafka2i/internal/session"
	"github.com/atomicstack/kafka2i/internal/theme"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	minListWidth  = 24
	detailsHeight = 9
	// header, status line and prompt line
	chromeRows = 3
)

// layout is the geometry of one frame. Box heights include their borders.
type layout struct {
	width   int
	height  int
	left    int
	right   int
	body    int
	lists   map[menu.Pane]int
	details int
	message int
}

func (m *Model) layout() layout {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	lay := layout{width: w, height: h, body: max(h-chromeRows, 4)}
	lay.left = max(w/3, minListWidth)
	if lay.left > w-minListWidth {
		lay.left = max(w/2, 1)
	}
	lay.right = max(w-lay.left, 1)
	panes := m.visibleLists()
	heights := split(lay.body, len(panes))
	lay.lists = make(map[menu.Pane]int, len(panes))
	for i, pane := range panes {
		lay.lists[pane] = heights[i]
	}
	lay.details = min(detailsHeight, lay.body/2)
	lay.message = lay.body - lay.details
	return lay
}

// listRows is the number of entries a list box can show, or 0 when the
// pane is hidden.
func (l layout) listRows(pane menu.Pane) int {
	h, ok := l.lists[pane]
	if !ok {
		return 0
	}
	return max(h-2, 1)
}

func (l layout) messageRows() int {
	return max(l.message-2, 1)
}

func split(total, n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = total / n
		if i < total%n {
			out[i]++
		}
	}
	return out
}

// View implements tea.Model. It only reads model state.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	lay := m.layout()
	var body string
	if m.mode == ModeHelp {
		body = m.renderHelp(lay)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderLists(lay), m.renderRight(lay))
	}
	return strings.Join([]string{
		truncateLine(m.headerLine(), lay.width),
		body,
		truncateLine(m.statusLine(), lay.width),
		truncateLine(m.promptLine(), lay.width),
	}, "\n")
}

func (m *Model) headerLine() string {
	parts := []string{
		theme.Render(styles.Header, "kafka2i"),
		theme.Render(styles.AppMode, strings.ToUpper(m.appMode.String())),
		theme.Render(styles.Status, strings.ToUpper(m.mode.String())),
	}
	snap := m.snapshot
	if snap != nil && !snap.Empty() {
		summary := fmt.Sprintf("%d brokers  %d groups  %d topics  %d partitions",
			len(snap.Brokers), len(snap.Groups), len(snap.Topics), len(snap.Partitions))
		parts = append(parts, theme.Render(styles.Status, summary))
	}
	if name := m.cursor.Name(); name != "" {
		parts = append(parts, theme.Render(styles.Info, "partition "+name))
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderLists(lay layout) string {
	panes := m.visibleLists()
	boxes := make([]string, 0, len(panes))
	for _, pane := range panes {
		boxes = append(boxes, m.renderList(pane, lay.left, lay.lists[pane]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

func (m *Model) renderList(pane menu.Pane, width, height int) string {
	lvl := m.levels[pane]
	focused := m.focus == pane && m.mode != ModeHelp
	innerW := max(width-2, 1)
	rows := max(height-2, 1)
	title := lvl.Title
	if strings.TrimSpace(lvl.Filter) != "" {
		title += " /" + lvl.Filter
	}
	info := ""
	if len(lvl.Items) > 0 {
		info = fmt.Sprintf("%d/%d", lvl.Cursor+1, len(lvl.Items))
	}
	var lines []string
	if len(lvl.Items) == 0 {
		msg := "(no entries)"
		if strings.TrimSpace(lvl.Filter) != "" {
			msg = fmt.Sprintf("No matches for %q", lvl.Filter)
		}
		lines = []string{theme.Render(styles.Info, msg)}
	} else {
		start := clampScroll(lvl.ViewportOffset, len(lvl.Items), rows)
		end := min(start+rows, len(lvl.Items))
		for i := start; i < end; i++ {
			lines = append(lines, buildItemLine(lvl.Items[i].Label, i == lvl.Cursor, focused, innerW))
		}
	}
	return renderBox(box{title: title, info: info, lines: lines, width: width, height: height, focused: focused})
}

// buildItemLine renders one entry padded to width so the highlight spans
// the whole row.
func buildItemLine(label string, selected, focused bool, width int) string {
	indicatorStyle := styles.ItemIndicator
	lineStyle := styles.Item
	if selected {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
		if !focused {
			lineStyle = styles.SelectedItemBlurred
		}
	}
	text := fit(" "+label, max(width-1, 0))
	return theme.Render(indicatorStyle, "▌") + theme.Render(lineStyle, text)
}

func (m *Model) renderRight(lay layout) string {
	title, lines := m.details()
	details := renderBox(box{
		title:  title,
		lines:  lines,
		width:  lay.right,
		height: lay.details,
		style:  styles.DetailValue,
	})
	return lipgloss.JoinVertical(lipgloss.Left, details, m.renderMessage(lay))
}

func (m *Model) details() (string, []string) {
	if m.focus == menu.PaneMessage {
		return "Details: " + m.focus.String(), m.cursorDetails()
	}
	lvl := m.levels[m.focus]
	item, ok := lvl.Current()
	if !ok {
		return "Details", []string{"(nothing selected)"}
	}
	describe := menu.Describers()[m.focus]
	fields := describe(m.menuContext(), item)
	if len(fields) == 0 {
		return "Details", []string{"(nothing selected)"}
	}
	return "Details: " + m.focus.String(), table.Fields(fields)
}

func (m *Model) cursorDetails() []string {
	c := m.cursor
	if !c.Selected {
		return []string{"(no partition selected)"}
	}
	fields := []table.Field{{Label: "Partition", Value: c.Name()}}
	if c.HasOffset {
		fields = append(fields, table.Field{Label: "Offset", Value: strconv.FormatInt(c.Offset, 10)})
	}
	if msg := c.Message; msg != nil {
		fields = append(fields,
			table.Field{Label: "Timestamp", Value: msg.Timestamp.UTC().Format(time.RFC3339Nano)},
			table.Field{Label: "Size", Value: message.Size(*msg)},
			table.Field{Label: "Headers", Value: strconv.Itoa(len(msg.Headers))},
		)
	}
	if p, ok := m.snapshot.Partition(c.Topic, c.Partition); ok {
		fields = append(fields, table.Field{Label: "Range", Value: fmt.Sprintf("[%d, %d)", p.Low, p.High)})
	}
	return table.Fields(fields)
}

func (m *Model) renderMessage(lay layout) string {
	focused := m.focus == menu.PaneMessage
	if m.appMode == AppProducer {
		return renderBox(box{
			title:  "Producer",
			lines:  []string{"Producing messages is not supported yet.", "Press c to return to the consumer."},
			width:  lay.right,
			height: lay.message,
			style:  styles.Info,
		})
	}
	title := "Message"
	if msg := m.cursor.Message; msg != nil {
		title = message.Title(*msg)
	}
	rows := lay.messageRows()
	var (
		lines []string
		info  string
		style = styles.Info
	)
	switch {
	case !m.cursor.Selected:
		lines = []string{"Select a partition to browse its messages."}
	case m.cursor.Message == nil && m.cursor.Pending:
		lines = []string{"Loading…"}
	case m.cursor.Message == nil:
		lines = []string{
			"No message loaded.",
			"Press → for the first message, ← for the last,",
			"or : then offset!<n> or ts!<ms> to seek.",
		}
	default:
		start := clampScroll(m.messageScroll, len(m.messageLines), rows)
		end := min(start+rows, len(m.messageLines))
		lines = m.messageLines[start:end]
		if len(m.messageLines) > rows {
			info = fmt.Sprintf("%d/%d", end, len(m.messageLines))
		}
		style = nil
		if !m.highlight {
			style = styles.MessageBody
		}
	}
	return renderBox(box{
		title:   title,
		info:    info,
		lines:   lines,
		width:   lay.right,
		height:  lay.message,
		focused: focused && m.mode != ModeHelp,
		style:   style,
	})
}

func (m *Model) renderHelp(lay layout) string {
	lines := splitLines(m.help.FullHelpView(m.keys.FullHelp()))
	lines = append(lines,
		"",
		"Commands (press : on Partitions or Message):",
		"  offset!<n>   load the message at offset n",
		"  ts!<ms>      load the first message at or after epoch milliseconds",
		"",
		"Press h to close this help.",
	)
	return renderBox(box{title: "Help", lines: lines, width: lay.width, height: lay.body, focused: true})
}

// statusLine shows, in order: the inline parse error, the cursor error, the
// pending request, the refresh failure or escalated connection warning, and
// the age of the displayed metadata.
func (m *Model) statusLine() string {
	var segs []string
	if m.mode == ModeEdit && m.editErr != nil {
		segs = append(segs, theme.Render(styles.Error, kerrors.UserMessage(m.editErr)))
	}
	if err := m.cursor.Err; err != nil {
		segs = append(segs, theme.Render(styles.Error, "Error: "+kerrors.UserMessage(err)))
	}
	if text := pendingText(m.cursor); text != "" {
		segs = append(segs, theme.Render(styles.Pending, text))
	}
	switch {
	case m.status.Warning():
		warning := fmt.Sprintf(" cluster unreachable after %d attempts: %s ",
			m.status.ConsecutiveFailures, kerrors.UserMessage(m.status.LastError))
		segs = append(segs, theme.Render(styles.Warning, warning))
	case m.status.Degraded() && !m.status.LastSuccess.IsZero():
		segs = append(segs, theme.Render(styles.Error, "refresh failed: "+kerrors.UserMessage(m.status.LastError)))
	}
	segs = append(segs, theme.Render(styles.Status, m.refreshAge()))
	return strings.Join(segs, "  ")
}

func (m *Model) refreshAge() string {
	last := m.status.LastSuccess
	if last.IsZero() {
		if m.status.Degraded() {
			return "no metadata yet"
		}
		return "loading metadata…"
	}
	now := m.now
	if now.Before(last) {
		now = last
	}
	return "refreshed " + humanize.RelTime(last, now, "ago", "from now")
}

func pendingText(c session.Cursor) string {
	if !c.Pending {
		return ""
	}
	if c.TargetKnown {
		if c.Target.Kind == kafka.PositionTimestamp {
			return fmt.Sprintf("fetching ts %d...", c.Target.Value)
		}
		return fmt.Sprintf("fetching offset %d...", c.Target.Value)
	}
	return "fetching..."
}

func (m *Model) promptLine() string {
	if m.mode == ModeEdit {
		prefix := ":"
		if m.editPurpose == editFilter {
			prefix = "/"
		}
		return theme.Render(styles.Prompt, prefix) + m.editText()
	}
	if !m.showFooter {
		return ""
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// editText renders the buffer with the caret over the rune at the cursor.
func (m *Model) editText() string {
	runes := []rune(m.edit.String())
	pos := m.edit.Cursor()
	caret := " "
	after := ""
	if pos < len(runes) {
		caret = string(runes[pos])
		after = string(runes[pos+1:])
	}
	return theme.Render(styles.Input, string(runes[:pos])) + m.renderCaret(caret) + theme.Render(styles.Input, after)
}

func (m *Model) renderCaret(char string) string {
	if m.caret.Blink {
		return theme.Render(styles.Input, char)
	}
	return theme.Render(styles.Cursor, char)
}

type box struct {
	title   string
	info    string
	lines   []string
	width   int
	height  int
	focused bool
	// style wraps each content line; nil leaves pre-styled lines untouched.
	style *lipgloss.Style
}

// renderBox draws a rounded box of exactly width columns and height rows
// with the title set into the top border and info at its right end.
func renderBox(b box) string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)
	border, titleStyle := styles.Border, styles.PaneTitle
	if b.focused {
		border, titleStyle = styles.FocusedBorder, styles.FocusedTitle
	}
	width := max(b.width, 4)
	innerW := width - 2
	innerH := max(b.height-2, 1)

	titleSeg := " " + b.title + " "
	infoSeg := ""
	if b.info != "" {
		infoSeg = " " + b.info + " "
	}
	dashes := width - 4 - ansi.StringWidth(titleSeg) - ansi.StringWidth(infoSeg)
	if dashes < 0 {
		infoSeg = ""
		dashes = width - 4 - ansi.StringWidth(titleSeg)
	}
	if dashes < 0 {
		titleSeg = ansi.Truncate(titleSeg, width-4, "…")
		dashes = width - 4 - ansi.StringWidth(titleSeg)
	}
	dashes = max(dashes, 0)
	top := theme.Render(border, tlc+hz) +
		theme.Render(titleStyle, titleSeg) +
		theme.Render(border, strings.Repeat(hz, dashes)) +
		theme.Render(styles.PaneInfo, infoSeg) +
		theme.Render(border, hz+trc)

	rows := make([]string, 0, innerH+2)
	rows = append(rows, top)
	for i := 0; i < innerH; i++ {
		var content string
		if i < len(b.lines) {
			content = b.lines[i]
		}
		content = fit(content, innerW)
		if b.style != nil {
			content = b.style.Render(content)
		}
		rows = append(rows, theme.Render(border, vt)+content+theme.Render(border, vt))
	}
	rows = append(rows, theme.Render(border, blc+strings.Repeat(hz, innerW)+brc))
	return strings.Join(rows, "\n")
}

// fit truncates or pads s to exactly width columns.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		s = ansi.Truncate(s, width, "…")
		w = ansi.StringWidth(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func truncateLine(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\t", "    ")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
