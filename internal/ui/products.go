package ui

import (
	"fmt"
	"strings"

	"qkart/storefront/internal/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxVisibleProducts = 12
	nameWidth          = 28
)

type productsFocus int

const (
	focusGrid productsFocus = iota
	focusSearch
	focusCart
)

type productsView struct {
	search   textinput.Model
	spinner  spinner.Model
	spinning bool

	focus      productsFocus
	cursor     int
	cartCursor int
}

func newProductsView() productsView {
	search := textinput.New()
	search.Placeholder = "Search for items/categories"
	search.Prompt = "🔍 "
	search.CharLimit = 64
	search.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Primary)

	return productsView{
		search:   search,
		spinner:  sp,
		spinning: true,
		focus:    focusGrid,
	}
}

func (v *productsView) clampCursors(products, cartLines int) {
	v.cursor = clamp(v.cursor, products)
	v.cartCursor = clamp(v.cartCursor, cartLines)
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m Model) updateProducts(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.products.focus {
	case focusSearch:
		return m.updateSearch(key)
	case focusCart:
		return m.updateCartPanel(key)
	default:
		return m.updateGrid(key)
	}
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab", "down", "enter":
		m.products.search.Blur()
		m.products.focus = focusGrid
		return m, nil
	}

	before := m.products.search.Value()
	var cmd tea.Cmd
	m.products.search, cmd = m.products.search.Update(msg)
	if after := m.products.search.Value(); after != before {
		m.store.Query(after)
	}
	return m, cmd
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.store.Products()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.products.focus = focusSearch
		cmd := m.products.search.Focus()
		return m, cmd
	case "tab":
		if m.store.LoggedIn() {
			m.products.focus = focusCart
		}
	case "up", "k":
		m.products.cursor = clamp(m.products.cursor-1, len(products))
	case "down", "j":
		m.products.cursor = clamp(m.products.cursor+1, len(products))
	case "a", "enter":
		// the list may have changed before its event arrived
		m.products.cursor = clamp(m.products.cursor, len(products))
		if len(products) > 0 {
			m.store.AddToCart(products[m.products.cursor].ID, 1, true)
		}
	case "c":
		return m.startCheckout()
	case "l":
		if !m.store.LoggedIn() {
			return m.navigate(pageLogin)
		}
	case "r":
		if !m.store.LoggedIn() {
			return m.navigate(pageRegister)
		}
	case "o":
		if m.store.LoggedIn() {
			return m, m.logout
		}
	}
	return m, nil
}

func (m Model) updateCartPanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.store.Cart()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "esc":
		m.products.focus = focusGrid
	case "/":
		m.products.focus = focusSearch
		cmd := m.products.search.Focus()
		return m, cmd
	case "up", "k":
		m.products.cartCursor = clamp(m.products.cartCursor-1, len(items))
	case "down", "j":
		m.products.cartCursor = clamp(m.products.cartCursor+1, len(items))
	case "+", "=":
		m.products.cartCursor = clamp(m.products.cartCursor, len(items))
		if len(items) > 0 {
			item := items[m.products.cartCursor]
			m.store.UpdateQuantity(item.ProductID, item.Qty+1)
		}
	case "-":
		m.products.cartCursor = clamp(m.products.cartCursor, len(items))
		if len(items) > 0 {
			item := items[m.products.cartCursor]
			m.store.UpdateQuantity(item.ProductID, item.Qty-1)
		}
	case "c":
		return m.startCheckout()
	}
	return m, nil
}

func (m Model) startCheckout() (tea.Model, tea.Cmd) {
	if !m.store.LoggedIn() {
		next, cmd := m.navigate(pageLogin)
		return next, tea.Batch(cmd, m.showNotification(domain.NotificationWarning, "You must be logged in to access checkout page"))
	}
	if len(m.store.Cart()) == 0 {
		return m, m.showNotification(domain.NotificationWarning, "Cart is empty. Add more items to the cart to checkout.")
	}
	return m.navigate(pageCheckout)
}

func (m Model) logout() tea.Msg {
	if err := m.store.Logout(m.ctx); err != nil {
		return notificationMsg{level: domain.NotificationError, message: err.Error()}
	}
	return notificationMsg{level: domain.NotificationInfo, message: "Logged out"}
}

func (m Model) viewProducts() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Hero.Render("India's fastest delivery to your doorstep"))
	sb.WriteString("\n")
	sb.WriteString(m.products.search.View())
	sb.WriteString("\n\n")

	grid := m.gridView()
	if m.store.LoggedIn() {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", m.cartView()))
	} else {
		sb.WriteString(grid)
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render(m.productsHelp()))
	return sb.String()
}

func (m Model) gridView() string {
	if m.store.Loading() {
		return m.products.spinner.View() + " Loading Products..."
	}

	products := m.store.Products()
	if len(products) == 0 {
		return m.styles.Muted.Render("No products found")
	}

	start, end := window(m.products.cursor, len(products), maxVisibleProducts)

	var sb strings.Builder
	for i := start; i < end; i++ {
		p := products[i]
		line := fmt.Sprintf("%-*s %-14s %s %s",
			nameWidth, truncate(p.Name, nameWidth),
			truncate(p.Category, 14),
			m.styles.Price.Render(fmt.Sprintf("$%6.2f", p.Cost)),
			m.styles.Rating.Render(stars(p.Rating)),
		)
		if i == m.products.cursor && m.products.focus == focusGrid {
			sb.WriteString(m.styles.Selected.Render("▸ ") + line)
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}
	if len(products) > maxVisibleProducts {
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %d/%d", m.products.cursor+1, len(products))))
	}
	return sb.String()
}

func (m Model) cartView() string {
	items := m.store.Cart()

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Cart"))
	sb.WriteString("\n")

	if len(items) == 0 {
		sb.WriteString(m.styles.Muted.Render("Cart is empty. Add more items to the cart to checkout."))
		return m.styles.Panel.Render(sb.String())
	}

	for i, item := range items {
		line := fmt.Sprintf("%-20s - %d + $%.2f",
			truncate(item.Name, 20), item.Qty, item.Cost*float64(item.Qty))
		if i == m.products.cartCursor && m.products.focus == focusCart {
			sb.WriteString(m.styles.Selected.Render("▸ " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Total.Render(fmt.Sprintf("Order total $%.2f", m.store.CartTotal())))

	return m.styles.Panel.Render(sb.String())
}

func (m Model) productsHelp() string {
	switch m.products.focus {
	case focusSearch:
		return "[esc] Done"
	case focusCart:
		return "[↑/↓] Move  [+/-] Quantity  [c] Checkout  [tab] Products  [q] Quit"
	}
	if m.store.LoggedIn() {
		return "[/] Search  [a] Add to cart  [tab] Cart  [c] Checkout  [o] Logout  [q] Quit"
	}
	return "[/] Search  [a] Add to cart  [l] Login  [r] Register  [q] Quit"
}

// window returns the [start, end) slice of n rows that keeps cursor visible
func window(cursor, n, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	end := start + size
	if end > n {
		end = n
		start = n - size
	}
	return start, end
}
