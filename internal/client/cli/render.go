package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/iudanet/mazadlive/internal/client/announce"
	"github.com/iudanet/mazadlive/internal/client/notifications"
	"github.com/iudanet/mazadlive/internal/client/session"
	"github.com/iudanet/mazadlive/internal/models"
	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	name    lipgloss.Style
	detail  lipgloss.Style
	unread  lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	modal   lipgloss.Style
	toast   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		name:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		unread:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		muted:   lipgloss.NewStyle().Faint(true),
		success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 4).
			Align(lipgloss.Center),
		toast: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

// Renderer выводит состояние live-компонентов в терминал.
// Реализует announce.Display; безопасен для вызова из нескольких goroutine.
type Renderer struct {
	out    io.Writer
	now    func() time.Time
	styles styles
	mu     sync.Mutex
}

var _ announce.Display = (*Renderer)(nil)

// NewRenderer создает Renderer
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:    out,
		now:    time.Now,
		styles: newStyles(),
	}
}

func (r *Renderer) write(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = io.WriteString(r.out, s)
}

// ShowWinner выводит модальное окно победителя
func (r *Renderer) ShowWinner(state announce.State) {
	var b strings.Builder
	b.WriteString(r.styles.success.Render("🏆 " + announce.CongratulationMarker + " !"))
	b.WriteString("\n\n")
	if state.TenderTitle != "" {
		b.WriteString(r.styles.title.Render(state.TenderTitle))
		b.WriteString("\n")
	}
	if state.Message != "" {
		b.WriteString(r.styles.detail.Render(state.Message))
	}

	r.write(r.styles.modal.Render(strings.TrimRight(b.String(), "\n")) + "\n")
}

// Toast выводит короткое сообщение
func (r *Renderer) Toast(message string) {
	r.write(r.styles.toast.Render("✓ "+message) + "\n")
}

// Snapshot выводит агрегированные чаты и уведомления
func (r *Renderer) Snapshot(s notifications.Snapshot) {
	r.write(r.renderSnapshot(s))
}

func (r *Renderer) renderSnapshot(s notifications.Snapshot) string {
	var b strings.Builder

	b.WriteString(r.styles.title.Render(fmt.Sprintf("=== Messages (%d unread) ===", s.TotalUnread)))
	b.WriteString("\n")
	if len(s.Chats) == 0 {
		b.WriteString(r.styles.muted.Render("No conversations"))
		b.WriteString("\n")
	}
	for _, chat := range s.Chats {
		b.WriteString(r.renderChat(chat))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(r.styles.title.Render(fmt.Sprintf("=== Notifications (%d unread) ===", s.UnreadNotifications)))
	b.WriteString("\n")
	if len(s.Notifications) == 0 {
		b.WriteString(r.styles.muted.Render("No notifications"))
		b.WriteString("\n")
	}
	for _, ev := range s.Notifications {
		b.WriteString(r.renderNotification(ev))
		b.WriteString("\n")
	}

	return b.String()
}

func (r *Renderer) renderChat(chat notifications.ChatNotification) string {
	line := r.styles.name.Render(chat.Name)
	if chat.Time != "" {
		line += " " + r.styles.header.Render(chat.Time)
	}
	if chat.Unread > 0 {
		line += " " + r.styles.unread.Render(fmt.Sprintf("(%d)", chat.Unread))
	}

	message := chat.Message
	if message == "" {
		message = "-"
	}
	return line + "\n  " + r.styles.detail.Render(message)
}

func (r *Renderer) renderNotification(ev models.NotificationEvent) string {
	marker := r.styles.unread.Render("●")
	if ev.Read {
		marker = r.styles.muted.Render("○")
	}

	line := fmt.Sprintf("%s %s %s", marker, r.styles.name.Render(ev.Title), r.styles.header.Render(string(ev.Type)))
	if !ev.CreatedAt.IsZero() {
		line += " " + r.styles.header.Render(notifications.FormatDate(ev.CreatedAt, r.now()))
	}
	if ev.ID != "" {
		line += " " + r.styles.muted.Render("["+ev.ID+"]")
	}
	if ev.Message != "" {
		line += "\n  " + r.styles.detail.Render(ev.Message)
	}
	return line
}

// BidResult выводит результат одного тика поллера
func (r *Renderer) BidResult(userID string, result *pkgapi.BidCheckResult) {
	if result == nil || !result.HasChanges {
		return
	}
	r.write(r.renderBids(result))
}

func (r *Renderer) renderBids(result *pkgapi.BidCheckResult) string {
	var b strings.Builder

	b.WriteString(r.styles.title.Render("=== Bids ==="))
	b.WriteString("\n")

	if result.Message != "" {
		b.WriteString(r.styles.detail.Render(result.Message))
		b.WriteString("\n")
	}
	if !result.HasChanges && len(result.Outcomes) == 0 {
		b.WriteString(r.styles.muted.Render("No changes"))
		b.WriteString("\n")
		return b.String()
	}

	for _, o := range result.Outcomes {
		status := r.styles.detail.Render(o.Status)
		if strings.EqualFold(o.Status, "won") {
			status = r.styles.success.Render(o.Status)
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			r.styles.name.Render(o.TenderTitle),
			status,
			r.styles.header.Render(fmt.Sprintf("%.2f DA", o.Amount)))
	}

	return b.String()
}

// Bids выводит результат разовой проверки ставок
func (r *Renderer) Bids(result *pkgapi.BidCheckResult) {
	if result == nil {
		result = &pkgapi.BidCheckResult{}
	}
	r.write(r.renderBids(result))
}

// Status выводит состояние сессии
func (r *Renderer) Status(state session.State) {
	r.write(r.renderStatus(state))
}

func (r *Renderer) renderStatus(state session.State) string {
	var b strings.Builder

	b.WriteString(r.styles.title.Render("=== Session Status ==="))
	b.WriteString("\n")

	if !state.IsLogged {
		b.WriteString("Status: " + r.styles.warning.Render("Not logged in"))
		b.WriteString("\n\nRun 'mazadlive login' to authenticate.\n")
		return b.String()
	}

	b.WriteString("Status: " + r.styles.success.Render("Logged in"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "User: %s\n", r.styles.name.Render(state.User.DisplayName()))
	fmt.Fprintf(&b, "User ID: %s\n", state.UserID())
	if state.User.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", state.User.Phone)
	}

	if state.ExpiresAt.IsZero() {
		return b.String()
	}

	fmt.Fprintf(&b, "Token expires: %s\n", state.ExpiresAt.Format(time.RFC3339))
	if remaining := state.ExpiresAt.Sub(r.now()); remaining > 0 {
		fmt.Fprintf(&b, "Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		b.WriteString(r.styles.warning.Render("⚠️  Token has expired, it will be refreshed on next use."))
		b.WriteString("\n")
	}

	return b.String()
}
