package tui

import (
	"fmt"
	"strings"

	"github.com/example/storefront-client/internal/order"
)

func (m Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.loginView()
	case screenCart:
		return m.cartView()
	case screenOrders:
		return m.ordersView()
	case screenOrderDetail:
		return m.orderDetailView()
	case screenCheckout:
		return m.checkoutView()
	}
	return ""
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Storefront — sign in"))
	b.WriteString("\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if m.busy {
		b.WriteString(m.spin.View() + " signing in...\n")
	}
	b.WriteString(helpStyle.Render("tab: next field • enter: sign in • esc: quit"))
	return b.String()
}

func (m Model) cartView() string {
	store := m.sf.Cart()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Your cart"))
	b.WriteString("\n")

	switch {
	case store.Loading():
		b.WriteString(m.spin.View() + " loading cart...\n")
	case !store.Initialized():
		b.WriteString(faintStyle.Render("cart not loaded yet") + "\n")
	case store.IsEmpty():
		b.WriteString(faintStyle.Render("your cart is empty") + "\n")
	default:
		for i, item := range store.Items() {
			line := fmt.Sprintf("%-28s x%-3d %8.2f", item.ProductName, item.Quantity, item.Subtotal)
			if i == m.cursor {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		totalPrice, totalQuantity := store.Totals()
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%d items, subtotal %.2f\n", totalQuantity, totalPrice))
		b.WriteString(fmt.Sprintf("shipping %.2f\n", m.sf.ShippingCost()))
		b.WriteString(totalStyle.Render(fmt.Sprintf("total %.2f", m.sf.OrderTotal())) + "\n")
	}

	if store.SyncInProgress() {
		b.WriteString(m.spin.View() + " syncing...\n")
	}
	if msg := store.Err(); msg != "" {
		b.WriteString(errorStyle.Render(msg) + "\n")
	}
	b.WriteString(helpStyle.Render("+/-: quantity • x: remove • C: clear • c: checkout • o: orders • r: refresh • q: quit"))
	return b.String()
}

func (m Model) checkoutView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Checkout"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("order total %.2f (shipping %.2f)\n\n", m.sf.OrderTotal(), m.sf.ShippingCost()))
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if m.busy {
		b.WriteString(m.spin.View() + " placing order...\n")
	}
	if msg := m.sf.Orders().Err(); msg != "" {
		b.WriteString(errorStyle.Render(msg) + "\n")
	}
	b.WriteString(helpStyle.Render("tab: next field • enter: place order • esc: back to cart"))
	return b.String()
}

func (m Model) ordersView() string {
	store := m.sf.Orders()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Order history"))
	b.WriteString("\n")

	if store.Loading() {
		b.WriteString(m.spin.View() + " loading orders...\n")
	} else if len(store.Orders()) == 0 {
		b.WriteString(faintStyle.Render("no orders yet") + "\n")
	} else {
		for i, o := range store.Orders() {
			line := fmt.Sprintf("%-12s %-24s %8.2f", o.OrderNumber, o.Status, o.TotalPrice)
			if i == m.cursor {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
		b.WriteString(faintStyle.Render(fmt.Sprintf("page %d of %d (%d orders)",
			m.page, store.TotalPages(), store.TotalElements())) + "\n")
	}

	if msg := store.Err(); msg != "" {
		b.WriteString(errorStyle.Render(msg) + "\n")
	}
	b.WriteString(helpStyle.Render("enter: details • ←/→: page • b: back to cart • q: quit"))
	return b.String()
}

func (m Model) orderDetailView() string {
	store := m.sf.Orders()
	current := store.CurrentOrder()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Order details"))
	b.WriteString("\n")

	if store.Loading() {
		b.WriteString(m.spin.View() + " loading order...\n")
		return b.String()
	}
	if current == nil {
		b.WriteString(faintStyle.Render("no order selected") + "\n")
		b.WriteString(helpStyle.Render("b: back"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s — placed %s\n", current.OrderNumber, current.CreatedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("payment: %s  shipping: %s\n", current.PaymentStatus, current.ShippingStatus))
	if current.TrackingNumber != "" {
		b.WriteString("tracking: " + current.TrackingNumber + "\n")
	}
	b.WriteString("\n")
	b.WriteString(renderProgress(current.Status))
	b.WriteString("\n")

	for _, item := range current.Items {
		b.WriteString(fmt.Sprintf("  %-28s x%-3d %8.2f\n", item.ProductName, item.Quantity, item.Subtotal))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("subtotal %.2f  tax %.2f  shipping %.2f\n",
		current.Subtotal, current.TaxAmount, current.ShippingCost))
	b.WriteString(totalStyle.Render(fmt.Sprintf("total %.2f %s", current.TotalPrice, current.Currency)) + "\n")

	if msg := store.Err(); msg != "" {
		b.WriteString(errorStyle.Render(msg) + "\n")
	}
	b.WriteString(helpStyle.Render("p: mark paid • X: cancel order • b: back"))
	return b.String()
}

// renderProgress draws the canonical stage list. Off-path terminal states
// (cancelled, failed) have no stage index and render as a banner instead of a
// bogus position.
func renderProgress(status order.Status) string {
	if order.StageIndex(status) < 0 {
		return terminalBannerStyle.Render(string(status)) + "\n"
	}

	var b strings.Builder
	for i, stage := range order.Stages {
		label := stageLabel(stage)
		switch order.StageStateAt(status, i) {
		case order.StageCompleted:
			b.WriteString(stageDoneStyle.Render("[x] " + label))
		case order.StageCurrent:
			b.WriteString(stageCurrentStyle.Render("[>] " + label))
		default:
			b.WriteString(stagePendingStyle.Render("[ ] " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func stageLabel(s order.Status) string {
	return strings.ReplaceAll(strings.ToLower(string(s)), "_", " ")
}
