package ui

import (
	"fmt"
	"strings"

	"qkart/storefront/internal/domain"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type addressesMsg struct {
	addresses []domain.Address
	err       error
}

type orderResultMsg struct {
	order *domain.Order
	err   error
}

type checkoutView struct {
	addresses []domain.Address
	cursor    int
	selected  string
	adding    bool
	input     textinput.Model
	placing   bool
}

func newCheckoutView() checkoutView {
	in := textinput.New()
	in.Placeholder = "Enter your complete address"
	in.CharLimit = 256
	in.Width = 48

	return checkoutView{input: in}
}

func (m Model) loadAddresses() tea.Msg {
	addresses, err := m.store.Addresses(m.ctx)
	return addressesMsg{addresses: addresses, err: err}
}

func (m Model) updateCheckout(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case addressesMsg:
		if msg.err == nil {
			m.checkout.addresses = msg.addresses
			m.checkout.cursor = clamp(m.checkout.cursor, len(msg.addresses))
			if !hasAddress(msg.addresses, m.checkout.selected) {
				m.checkout.selected = ""
			}
		}
		return m, nil

	case orderResultMsg:
		m.checkout.placing = false
		return m, nil

	case tea.KeyMsg:
		if m.checkout.adding {
			return m.updateAddressInput(msg)
		}
		if m.checkout.placing {
			return m, nil
		}
		return m.updateCheckoutKeys(msg)
	}
	return m, nil
}

func (m Model) updateAddressInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.checkout.adding = false
		m.checkout.input.Reset()
		m.checkout.input.Blur()
		return m, nil
	case "enter":
		address := m.checkout.input.Value()
		m.checkout.adding = false
		m.checkout.input.Reset()
		m.checkout.input.Blur()
		return m, func() tea.Msg {
			addresses, err := m.store.AddAddress(m.ctx, address)
			return addressesMsg{addresses: addresses, err: err}
		}
	}

	var cmd tea.Cmd
	m.checkout.input, cmd = m.checkout.input.Update(msg)
	return m, cmd
}

func (m Model) updateCheckoutKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	addresses := m.checkout.addresses

	switch msg.String() {
	case "esc":
		return m.navigate(pageProducts)
	case "up", "k":
		m.checkout.cursor = clamp(m.checkout.cursor-1, len(addresses))
	case "down", "j":
		m.checkout.cursor = clamp(m.checkout.cursor+1, len(addresses))
	case " ", "enter":
		if len(addresses) > 0 {
			m.checkout.selected = addresses[m.checkout.cursor].ID
		}
	case "n":
		m.checkout.adding = true
		cmd := m.checkout.input.Focus()
		return m, cmd
	case "d":
		if len(addresses) == 0 {
			return m, nil
		}
		id := addresses[m.checkout.cursor].ID
		return m, func() tea.Msg {
			addresses, err := m.store.DeleteAddress(m.ctx, id)
			return addressesMsg{addresses: addresses, err: err}
		}
	case "p":
		m.checkout.placing = true
		addressID := m.checkout.selected
		place := func() tea.Msg {
			order, err := m.store.Checkout(m.ctx, addressID)
			return orderResultMsg{order: order, err: err}
		}
		if m.products.spinning {
			return m, place
		}
		m.products.spinning = true
		return m, tea.Batch(place, m.products.spinner.Tick)
	}
	return m, nil
}

func hasAddress(addresses []domain.Address, id string) bool {
	for _, a := range addresses {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (m Model) viewCheckout() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Shipping"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("Manage all the shipping addresses you want. This way you won't have to enter the shipping address manually with every order. Select the address you want to get your order delivered."))
	sb.WriteString("\n\n")

	if len(m.checkout.addresses) == 0 {
		sb.WriteString(m.styles.Muted.Render("No addresses found for this account. Please add one to proceed"))
		sb.WriteString("\n")
	}
	for i, a := range m.checkout.addresses {
		mark := "( )"
		if a.ID == m.checkout.selected {
			mark = "(•)"
		}
		line := fmt.Sprintf("%s %s", mark, a.Address)
		if i == m.checkout.cursor {
			sb.WriteString(m.styles.Selected.Render("▸ " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	if m.checkout.adding {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Panel.Render(m.checkout.input.View()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Title.Render("Payment"))
	sb.WriteString("\n")
	items := m.store.Cart()
	total := m.store.CartTotal()
	sb.WriteString(fmt.Sprintf("Products   %d\n", len(items)))
	sb.WriteString(fmt.Sprintf("Subtotal   $%.2f\n", total))
	sb.WriteString("Shipping   $0.00\n")
	sb.WriteString(m.styles.Total.Render(fmt.Sprintf("Total      $%.2f", total)))
	sb.WriteString("\n")
	if session := m.store.Session(); session != nil {
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("Wallet     $%.2f", session.Balance)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if m.checkout.placing {
		sb.WriteString(m.products.spinner.View() + " Placing order...")
	} else if m.checkout.adding {
		sb.WriteString(m.styles.Help.Render("[enter] Add  [esc] Cancel"))
	} else {
		sb.WriteString(m.styles.Help.Render("[↑/↓] Move  [space] Select  [n] New address  [d] Delete  [p] Place order  [esc] Back"))
	}
	return sb.String()
}
