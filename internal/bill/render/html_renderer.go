package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

const billHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Bill {{.Bill.Number}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #111827;
      background: #ffffff;
    }
    .bill {
      max-width: 820px;
      margin: 0 auto;
    }
    .header {
      display: flex;
      justify-content: space-between;
      align-items: flex-start;
      border-bottom: 2px solid #111827;
      padding-bottom: 16px;
      margin-bottom: 24px;
    }
    .meta {
      text-align: right;
      font-size: 14px;
    }
    .meta .label {
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      font-size: 11px;
    }
    .section {
      margin-bottom: 24px;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 14px;
    }
    th, td {
      padding: 10px;
      border-bottom: 1px solid #e5e7eb;
      text-align: left;
    }
    th {
      text-transform: uppercase;
      font-size: 11px;
      letter-spacing: 0.04em;
      color: #6b7280;
    }
    .totals {
      margin-top: 12px;
      display: flex;
      justify-content: flex-end;
      font-size: 16px;
    }
    .totals strong {
      margin-left: 12px;
    }
    .footer {
      border-top: 1px solid #e5e7eb;
      padding-top: 16px;
      font-size: 12px;
      color: #6b7280;
    }
  </style>
</head>
<body>
  <div class="bill">
    <div class="header">
      <div>
        <div><strong>{{.Customer.Name}}</strong></div>
        {{if .Customer.Address}}<div>{{.Customer.Address}}</div>{{end}}
        {{if .Customer.BoxNumber}}<div>Box {{.Customer.BoxNumber}}</div>{{end}}
      </div>
      <div class="meta">
        <div class="label">Bill</div>
        <div><strong>{{.Bill.Number}}</strong></div>
        <div>Status: {{.Bill.Status}}</div>
        <div>Billed: {{formatDate .Bill.BillDate}}</div>
        <div>Due: {{formatOptionalDate .Bill.DueDate}}</div>
      </div>
    </div>

    <div class="section">
      <table>
        <thead>
          <tr>
            <th>Plan</th>
            <th>Months</th>
            <th>Price</th>
            <th>Amount</th>
          </tr>
        </thead>
        <tbody>
          {{range .Lines}}
          <tr>
            <td>{{.Name}}</td>
            <td>{{.Months}}</td>
            <td>{{formatMoney .Price}}</td>
            <td>{{formatMoney .Amount}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
      <div class="totals">
        <span>Total Due</span>
        <strong>{{formatMoney .Bill.Amount}}</strong>
      </div>
      <div class="totals">
        <span>Paid</span>
        <strong>{{formatMoney .Bill.PaidAmount}}</strong>
      </div>
    </div>

    {{if .Bill.Notes}}
    <div class="footer">{{.Bill.Notes}}</div>
    {{end}}
  </div>
</body>
</html>
`

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"formatMoney":        formatMoney,
		"formatDate":         formatDate,
		"formatOptionalDate": formatOptionalDate,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("bill").Funcs(funcs).Parse(billHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatMoney(amount decimal.Decimal) string {
	return fmt.Sprintf("Rs. %s", amount.StringFixed(2))
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02")
}

func formatOptionalDate(value *time.Time) string {
	if value == nil {
		return "-"
	}
	return formatDate(*value)
}
