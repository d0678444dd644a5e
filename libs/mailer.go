package libs

import (
	"context"
	"fmt"

	"cart-shop/models"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, user, pass, from string) (*Mailer, error) {
	if host == "" || user == "" || pass == "" {
		return nil, fmt.Errorf("SMTP configuration missing")
	}
	if port == 0 {
		port = 587
	}
	return &Mailer{dialer: gomail.NewDialer(host, port, user, pass), from: from}, nil
}

func (m *Mailer) OrderPlaced(ctx context.Context, to string, order *models.Order) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Order #%d confirmed", order.Number))
	msg.SetBody("text/html", orderBody(order))

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send order confirmation: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func orderBody(order *models.Order) string {
	rows := ""
	for _, item := range order.Items {
		rows += fmt.Sprintf(
			`<tr><td>%s</td><td style="text-align:right">%d</td><td style="text-align:right">%s</td><td style="text-align:right">%s</td></tr>`,
			item.ProductName, item.Quantity, item.UnitCost.StringFixed(2), item.Subtotal.StringFixed(2),
		)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
        <h2 style="color: #333;">Thank you for your order</h2>
        <p>Order <strong>#%d</strong> will ship to %s on %s.</p>
        <table style="width: 100%%; border-collapse: collapse;">
            <tr><th style="text-align:left">Product</th><th>Qty</th><th>Unit</th><th>Subtotal</th></tr>
            %s
        </table>
        <p style="text-align:right"><strong>Total: %s</strong></p>
        <p style="color: #666; font-size: 12px;">This is an automated email. Please do not reply.</p>
    </div>
</body>
</html>`, order.Number, order.State, order.ShippedAt.Format("2006-01-02"), rows, order.Total().StringFixed(2))
}
