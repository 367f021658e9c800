// Package tui is the terminal storefront: a thin consumer of the storefront
// layer. It renders store state and dispatches user actions; all business
// rules stay behind the stores.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/example/storefront-client/internal/apiclient"
	"github.com/example/storefront-client/internal/auth"
	"github.com/example/storefront-client/internal/order"
	"github.com/example/storefront-client/internal/session"
	"github.com/example/storefront-client/internal/storefront"
	"go.uber.org/zap"
)

type screen int

const (
	screenLogin screen = iota
	screenCart
	screenOrders
	screenOrderDetail
	screenCheckout
)

// opDoneMsg signals that an asynchronous store operation finished. The store
// already holds the resulting state; the message only triggers a re-render.
type opDoneMsg struct{ err error }

type loginDoneMsg struct{ err error }

type checkoutDoneMsg struct {
	created *order.Order
	err     error
}

type Model struct {
	sf   *storefront.Storefront
	api  *apiclient.Client
	sess *session.Session
	log  *zap.Logger

	screen screen
	cursor int
	page   int
	spin   spinner.Model
	busy   bool

	inputs     []textinput.Model
	focusIndex int
}

func New(sf *storefront.Storefront, api *apiclient.Client, sess *session.Session, logger *zap.Logger) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		sf:   sf,
		api:  api,
		sess: sess,
		log:  logger,
		spin: sp,
		page: 1,
	}
	if sf.Authenticated() {
		m.screen = screenCart
	} else {
		m.screen = screenLogin
		m.inputs = loginInputs()
	}
	return m
}

func loginInputs() []textinput.Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return []textinput.Model{email, password}
}

func checkoutInputs() []textinput.Model {
	address := textinput.New()
	address.Placeholder = "shipping address"
	address.Focus()

	phone := textinput.New()
	phone.Placeholder = "phone number"

	payment := textinput.New()
	payment.Placeholder = "payment method (e.g. CREDIT_CARD)"

	return []textinput.Model{address, phone, payment}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.screen == screenCart {
		cmds = append(cmds, m.loadCartCmd())
	}
	return tea.Batch(cmds...)
}

// Commands run store operations on background context; in-flight requests
// are not aborted on screen changes, matching the sync model.

func (m Model) loadCartCmd() tea.Cmd {
	sf := m.sf
	return func() tea.Msg {
		return opDoneMsg{err: sf.EnsureCartLoaded(context.Background())}
	}
}

func (m Model) refreshCartCmd() tea.Cmd {
	sf := m.sf
	return func() tea.Msg {
		return opDoneMsg{err: sf.RefreshCart(context.Background())}
	}
}

func (m Model) cartOpCmd(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: op(context.Background())}
	}
}

func (m Model) listOrdersCmd(page int) tea.Cmd {
	sf := m.sf
	return func() tea.Msg {
		return opDoneMsg{err: sf.ListOrders(context.Background(), page, 10)}
	}
}

func (m Model) getOrderCmd(orderID int64) tea.Cmd {
	sf := m.sf
	return func() tea.Msg {
		_, err := sf.GetOrder(context.Background(), orderID)
		return opDoneMsg{err: err}
	}
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	api, sess := m.api, m.sess
	return func() tea.Msg {
		result, err := auth.Login(context.Background(), api, email, password)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		if err := sess.SetCredentials(result.AccessToken, &result.User); err != nil {
			return loginDoneMsg{err: err}
		}
		return loginDoneMsg{}
	}
}

func (m Model) checkoutCmd(req order.CreateOrderRequest) tea.Cmd {
	sf := m.sf
	return func() tea.Msg {
		created, err := sf.Checkout(context.Background(), req)
		return checkoutDoneMsg{created: created, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case opDoneMsg:
		m.busy = false
		m.clampCursor()
		return m, nil

	case loginDoneMsg:
		m.busy = false
		if msg.err == nil {
			m.screen = screenCart
			m.inputs = nil
			m.busy = true
			return m, m.loadCartCmd()
		}
		return m, nil

	case checkoutDoneMsg:
		m.busy = false
		if msg.err == nil {
			m.screen = screenOrderDetail
			m.inputs = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text-entry screens swallow most keys.
	if m.screen == screenLogin || m.screen == screenCheckout {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	switch m.screen {
	case screenCart:
		return m.handleCartKey(msg)
	case screenOrders:
		return m.handleOrdersKey(msg)
	case screenOrderDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.screen == screenCheckout {
			m.screen = screenCart
			m.inputs = nil
			return m, nil
		}
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		if msg.String() == "shift+tab" || msg.String() == "up" {
			m.focusIndex--
		} else {
			m.focusIndex++
		}
		if m.focusIndex < 0 {
			m.focusIndex = len(m.inputs) - 1
		}
		if m.focusIndex >= len(m.inputs) {
			m.focusIndex = 0
		}
		for i := range m.inputs {
			if i == m.focusIndex {
				m.inputs[i].Focus()
			} else {
				m.inputs[i].Blur()
			}
		}
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		m.busy = true
		if m.screen == screenLogin {
			return m, m.loginCmd(m.inputs[0].Value(), m.inputs[1].Value())
		}
		req := order.CreateOrderRequest{
			Items:           cartLines(m.sf),
			ShippingAddress: m.inputs[0].Value(),
			PhoneNumber:     m.inputs[1].Value(),
			PaymentMethod:   m.inputs[2].Value(),
			ShippingCost:    m.sf.ShippingCost(),
		}
		return m, m.checkoutCmd(req)
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

// cartLines captures the checkout lines from the current cart view. Unit
// prices are submitted as seen; the backend computes the canonical total.
func cartLines(sf *storefront.Storefront) []order.LineItem {
	items := sf.Cart().Items()
	lines := make([]order.LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, order.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return lines
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.sf.Cart().Items()

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "+", "=":
		if m.cursor < len(items) {
			id := items[m.cursor].ID
			m.busy = true
			return m, m.cartOpCmd(func(ctx context.Context) error { return m.sf.Increment(ctx, id) })
		}
	case "-":
		if m.cursor < len(items) {
			id := items[m.cursor].ID
			m.busy = true
			return m, m.cartOpCmd(func(ctx context.Context) error { return m.sf.Decrement(ctx, id) })
		}
	case "x":
		if m.cursor < len(items) {
			id := items[m.cursor].ID
			m.busy = true
			return m, m.cartOpCmd(func(ctx context.Context) error { return m.sf.RemoveItem(ctx, id) })
		}
	case "C":
		m.busy = true
		return m, m.cartOpCmd(func(ctx context.Context) error {
			m.sf.ClearCart(ctx)
			return nil
		})
	case "r":
		m.busy = true
		return m, m.refreshCartCmd()
	case "c":
		if !m.sf.Cart().IsEmpty() {
			m.screen = screenCheckout
			m.inputs = checkoutInputs()
			m.focusIndex = 0
		}
	case "o":
		m.screen = screenOrders
		m.cursor = 0
		m.page = 1
		m.busy = true
		return m, m.listOrdersCmd(m.page)
	}
	return m, nil
}

func (m Model) handleOrdersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	orders := m.sf.Orders().Orders()

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(orders)-1 {
			m.cursor++
		}
	case "left", "h":
		if m.page > 1 {
			m.page--
			m.cursor = 0
			m.busy = true
			return m, m.listOrdersCmd(m.page)
		}
	case "right", "l":
		if m.page < m.sf.Orders().TotalPages() {
			m.page++
			m.cursor = 0
			m.busy = true
			return m, m.listOrdersCmd(m.page)
		}
	case "enter":
		if m.cursor < len(orders) {
			m.screen = screenOrderDetail
			m.busy = true
			return m, m.getOrderCmd(orders[m.cursor].ID)
		}
	case "b":
		m.screen = screenCart
		m.cursor = 0
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current := m.sf.Orders().CurrentOrder()

	switch msg.String() {
	case "b":
		m.sf.Orders().ClearCurrentOrder()
		m.screen = screenOrders
	case "p":
		if current != nil {
			id := current.ID
			m.busy = true
			return m, m.cartOpCmd(func(ctx context.Context) error {
				_, err := m.sf.UpdatePaymentStatus(ctx, id, order.PaymentPaid)
				return err
			})
		}
	case "X":
		if current != nil {
			id := current.ID
			m.busy = true
			return m, m.cartOpCmd(func(ctx context.Context) error {
				_, err := m.sf.CancelOrder(ctx, id, "cancelled from terminal client")
				return err
			})
		}
	}
	return m, nil
}

func (m *Model) clampCursor() {
	var max int
	switch m.screen {
	case screenCart:
		max = len(m.sf.Cart().Items())
	case screenOrders:
		max = len(m.sf.Orders().Orders())
	}
	if max == 0 {
		m.cursor = 0
	} else if m.cursor >= max {
		m.cursor = max - 1
	}
}
