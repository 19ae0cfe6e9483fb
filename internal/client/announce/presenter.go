// Package announce surfaces "you won" notifications exactly once per event
// for the lifetime of a session.
package announce

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/iudanet/mazadlive/internal/client/realtime"
	"github.com/iudanet/mazadlive/internal/models"
)

const (
	// DedupKeyPrefix - префикс ключа "показано" для события
	DedupKeyPrefix = "winner-shown-"
	// CongratulationMarker - маркер в заголовке для сообщений без типа
	CongratulationMarker = "Félicitations"
	// DefaultCapacity - сколько ключей помнит сессия
	DefaultCapacity = 512

	subscriptionKey = "winner-presenter"
	defaultMessage  = "Vous avez remporté l'enchère."
)

// State - текущее состояние модального окна победителя
type State struct {
	EventKey    string
	TenderTitle string
	Message     string
	Shown       bool
}

// Display показывает модальное окно и toast
type Display interface {
	ShowWinner(state State)
	Toast(message string)
}

// Subscriber - источник realtime событий
type Subscriber interface {
	Subscribe(event, key string, fn realtime.Handler) *realtime.Subscription
}

// Presenter - машина состояний с подавлением повторов
type Presenter struct {
	display Display
	logger  *slog.Logger
	seen    *seenSet
	sub     *realtime.Subscription
	state   State
	mu      sync.Mutex
}

// New создает Presenter
func New(display Display, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Presenter{
		display: display,
		logger:  logger,
		seen:    newSeenSet(DefaultCapacity),
	}
}

// IsWin - событие о победе: тип BID_WON/OFFER_ACCEPTED или маркер в заголовке
func IsWin(ev models.NotificationEvent) bool {
	switch ev.Type {
	case models.NotificationBidWon, models.NotificationOfferAccepted:
		return true
	}

	return strings.Contains(strings.ToLower(ev.Title), strings.ToLower(CongratulationMarker))
}

// DedupKey возвращает ключ "показано" для события
func DedupKey(ev models.NotificationEvent) string {
	return DedupKeyPrefix + ev.Key()
}

// Attach подписывает Presenter на уведомления канала
func (p *Presenter) Attach(ch Subscriber) {
	sub := ch.Subscribe(realtime.EventNotification, subscriptionKey, p.handleEvent)

	p.mu.Lock()
	prev := p.sub
	p.sub = sub
	p.mu.Unlock()

	// Тот же ключ уже заменил регистрацию в реестре; снятие старого handle безопасно
	if prev != nil && prev != sub {
		prev.Unsubscribe()
	}
}

// Detach снимает подписку
func (p *Presenter) Detach() {
	p.mu.Lock()
	sub := p.sub
	p.sub = nil
	p.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// Reset забывает показанные события и закрывает окно (logout)
func (p *Presenter) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seen.reset()
	p.state = State{}
}

// Dismiss закрывает окно; ключ остается показанным
func (p *Presenter) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Shown = false
}

// State возвращает текущее состояние окна
func (p *Presenter) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Handle обрабатывает событие; возвращает true, если окно показано
func (p *Presenter) Handle(ev models.NotificationEvent) bool {
	if !IsWin(ev) {
		return false
	}

	key := DedupKey(ev)

	p.mu.Lock()
	if !p.seen.add(key) {
		p.mu.Unlock()
		p.logger.Debug("winner announcement already shown", "key", key)
		return false
	}

	state := State{
		EventKey:    key,
		TenderTitle: tenderTitle(ev),
		Message:     ev.Message,
		Shown:       true,
	}
	if state.Message == "" {
		state.Message = defaultMessage
	}
	p.state = state
	p.mu.Unlock()

	p.logger.Info("presenting winner announcement", "key", key, "tender", state.TenderTitle)

	p.display.ShowWinner(state)
	p.display.Toast(toastText(state))

	return true
}

// handleEvent разбирает realtime событие
func (p *Presenter) handleEvent(ev realtime.Event) {
	var event models.NotificationEvent
	if err := ev.Decode(&event); err != nil {
		p.logger.Warn("invalid notification payload", "error", err)
		return
	}

	p.Handle(event)
}

// tenderTitle берет название лота из data, иначе из заголовка
func tenderTitle(ev models.NotificationEvent) string {
	for _, field := range []string{"tenderTitle", "title"} {
		if v := ev.DataString(field); v != "" {
			return v
		}
	}
	return ev.Title
}

func toastText(s State) string {
	if s.TenderTitle == "" {
		return CongratulationMarker + " ! " + s.Message
	}
	return fmt.Sprintf("%s ! Vous avez remporté « %s »", CongratulationMarker, s.TenderTitle)
}
