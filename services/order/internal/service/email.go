package service

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Skotchmaster/oss_shop/pkg/notify"
	"github.com/Skotchmaster/oss_shop/services/order/internal/models"
)

var placedTmpl = template.Must(template.New("placed").Parse(`Thank you for your order!

Order ID: {{.OrderID}}
Order Date: {{.OrderDate.Format "2006-01-02 15:04"}}
Status: {{.Status}}
Estimated Delivery: {{.EstimatedDelivery.Format "2006-01-02"}}

Items:
{{range .Items}}- {{.ProductName}} x {{.Quantity}} @ {{.Price.StringFixed 2}} = {{.LineTotal.StringFixed 2}}
{{end}}
{{- if .Subtotal.Valid}}Subtotal: {{.Subtotal.Decimal.StringFixed 2}}
{{end}}
{{- if .Shipping.Valid}}Shipping: {{.Shipping.Decimal.StringFixed 2}}
{{end}}
{{- if .Tax.Valid}}Tax: {{.Tax.Decimal.StringFixed 2}}
{{end}}
{{- if .Discount.Valid}}Discount: {{.Discount.Decimal.StringFixed 2}}
{{end}}Total: {{.TotalAmount.StringFixed 2}}
{{if .ShippingLine1}}
Shipping to:
{{.ShippingFullName}}
{{.ShippingLine1}}{{if .ShippingLine2}}, {{.ShippingLine2}}{{end}}
{{.ShippingCity}}, {{.ShippingState}} {{.ShippingZipCode}}
{{.ShippingCountry}}
{{end}}
{{- if .PaymentDetails}}
Payment: {{.PaymentDetails}}
{{end}}`))

var cancelledTmpl = template.Must(template.New("cancelled").Parse(`Your order {{.OrderID}} has been cancelled.

Refund amount: {{.TotalAmount.StringFixed 2}}
`))

func render(t *template.Template, o *models.Order) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, o); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func orderPlacedEmail(o *models.Order) (notify.Message, error) {
	body, err := render(placedTmpl, o)
	if err != nil {
		return notify.Message{}, fmt.Errorf("render order email: %w", err)
	}
	return notify.Message{
		To:       o.CustomerEmail,
		Subject:  "Order Confirmation - " + o.OrderID,
		TextBody: body,
		Tag:      "order-placed",
	}, nil
}

func orderCancelledEmail(o *models.Order) notify.Message {
	body, err := render(cancelledTmpl, o)
	if err != nil {
		body = "Your order " + o.OrderID + " has been cancelled."
	}
	return notify.Message{
		To:       o.CustomerEmail,
		Subject:  "Order Cancelled - " + o.OrderID,
		TextBody: body,
		Tag:      "order-cancelled",
	}
}
