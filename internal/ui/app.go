package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/storefront"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

const (
	notificationTTL = 3 * time.Second
	eventBuffer     = 256
)

type page int

const (
	pageProducts page = iota
	pageLogin
	pageRegister
	pageCheckout
	pageThanks
)

// storeEventMsg carries a storefront.Event into the bubbletea loop
type storeEventMsg storefront.Event

type clearNotificationMsg struct{ id int }

type loadedMsg struct{ err error }

// notificationMsg is a notice raised by the UI itself rather than the store
type notificationMsg struct {
	level   domain.NotificationLevel
	message string
}

// Model is the root bubbletea model; it switches between pages
type Model struct {
	ctx    context.Context
	store  *storefront.Store
	styles Styles

	page   page
	width  int
	height int

	products productsView
	form     formView
	checkout checkoutView

	notification   *domain.Notification
	notificationID int
	lastOrder      *domain.Order
}

// NewModel creates the root model for store
func NewModel(ctx context.Context, store *storefront.Store) Model {
	return Model{
		ctx:      ctx,
		store:    store,
		styles:   DefaultStyles(),
		page:     pageProducts,
		products: newProductsView(),
		form:     newFormView(false),
		checkout: newCheckoutView(),
	}
}

// Run starts the terminal storefront and blocks until the user quits
func Run(ctx context.Context, store *storefront.Store) error {
	p := tea.NewProgram(NewModel(ctx, store), tea.WithAltScreen(), tea.WithContext(ctx))

	// Store methods called from Update emit on the UI goroutine, so events
	// are queued instead of sent directly.
	events := make(chan storefront.Event, eventBuffer)
	store.Subscribe(func(ev storefront.Event) {
		select {
		case events <- ev:
		default:
			log.Warnf("⚠️ UI event queue full, dropping %s event", ev.Kind)
		}
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case ev := <-events:
				p.Send(storeEventMsg(ev))
			case <-done:
				return
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run storefront UI: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.products.spinner.Tick,
		m.load,
	)
}

// load fetches the catalog, session and cart, like the product page on mount
func (m Model) load() tea.Msg {
	return loadedMsg{err: m.store.Load(m.ctx)}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case storeEventMsg:
		return m.handleStoreEvent(storefront.Event(msg))

	case spinner.TickMsg:
		if !m.store.Loading() && !m.checkout.placing {
			m.products.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.products.spinner, cmd = m.products.spinner.Update(msg)
		return m, cmd

	case notificationMsg:
		return m.setNotification(domain.Notification{Level: msg.level, Message: msg.message})

	case clearNotificationMsg:
		if msg.id == m.notificationID {
			m.notification = nil
		}
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			log.Errorf("❌ Failed to load storefront: %v", msg.err)
		}
		return m, nil

	case formResultMsg:
		return m.handleFormResult(msg)

	case orderResultMsg:
		if msg.err == nil {
			m.checkout.placing = false
			m.lastOrder = msg.order
			m.page = pageThanks
			return m, nil
		}
	}

	switch m.page {
	case pageLogin, pageRegister:
		return m.updateForm(msg)
	case pageCheckout:
		return m.updateCheckout(msg)
	case pageThanks:
		return m.updateThanks(msg)
	default:
		return m.updateProducts(msg)
	}
}

func (m Model) handleStoreEvent(ev storefront.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case storefront.EventNotification:
		return m.setNotification(ev.Notification)
	case storefront.EventLoading:
		if m.store.Loading() && !m.products.spinning {
			m.products.spinning = true
			return m, m.products.spinner.Tick
		}
	case storefront.EventProducts:
		m.products.clampCursors(len(m.store.Products()), len(m.store.Cart()))
	case storefront.EventCart:
		m.products.clampCursors(len(m.store.Products()), len(m.store.Cart()))
	}
	return m, nil
}

// setNotification shows n until it expires or a newer one replaces it
func (m Model) setNotification(n domain.Notification) (Model, tea.Cmd) {
	m.notification = &n
	m.notificationID++
	id := m.notificationID
	return m, tea.Tick(notificationTTL, func(time.Time) tea.Msg {
		return clearNotificationMsg{id: id}
	})
}

func (m Model) showNotification(level domain.NotificationLevel, message string) tea.Cmd {
	return func() tea.Msg {
		return notificationMsg{level: level, message: message}
	}
}

// navigate switches page and runs what the page needs on entry
func (m Model) navigate(to page) (Model, tea.Cmd) {
	m.page = to
	switch to {
	case pageLogin:
		m.form = newFormView(false)
		cmd := m.form.focusCmd()
		return m, cmd
	case pageRegister:
		m.form = newFormView(true)
		cmd := m.form.focusCmd()
		return m, cmd
	case pageCheckout:
		m.checkout = newCheckoutView()
		return m, m.loadAddresses
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.headerView())
	sb.WriteString("\n\n")

	switch m.page {
	case pageLogin, pageRegister:
		sb.WriteString(m.viewForm())
	case pageCheckout:
		sb.WriteString(m.viewCheckout())
	case pageThanks:
		sb.WriteString(m.thanksView())
	default:
		sb.WriteString(m.viewProducts())
	}

	sb.WriteString("\n")
	if m.notification != nil {
		style := m.styles.Notice[m.notification.Level]
		sb.WriteString(style.Render(m.notification.Message))
	}
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) headerView() string {
	title := m.styles.Header.Render("QKart")
	session := m.store.Session()
	if session == nil {
		return title + "  " + m.styles.Help.Render("[l] Login  [r] Register")
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		title,
		m.styles.Selected.Render(session.Username),
		m.styles.Muted.Render(fmt.Sprintf("wallet $%.2f", session.Balance)),
		m.styles.Help.Render("[o] Logout"),
	)
}

func (m Model) thanksView() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Yay! It's ordered 😃"))
	sb.WriteString("\n\n")
	sb.WriteString("You will receive an invoice for your order shortly.\n")
	sb.WriteString("Your order will arrive in the next 7 days.\n\n")
	if m.lastOrder != nil {
		sb.WriteString(fmt.Sprintf("Order %s  total $%.2f\n", m.lastOrder.ID, m.lastOrder.Total))
	}
	if session := m.store.Session(); session != nil {
		sb.WriteString(fmt.Sprintf("Wallet balance: $%.2f\n", session.Balance))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("[enter] Continue shopping  [q] Quit"))
	return sb.String()
}

func (m Model) updateThanks(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "enter", "esc":
		m.page = pageProducts
	case "q":
		return m, tea.Quit
	}
	return m, nil
}
