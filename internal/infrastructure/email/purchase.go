package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/samvyt/rifa/internal/domain/buyer"
	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/biztime"
)

type purchaseView struct {
	BuyerName   string
	RaffleName  string
	Prize       string
	Numbers     []string
	NumbersText string
	Amount      string
	DrawDate    string
	Link        string
}

var purchaseHTML = htmltemplate.Must(htmltemplate.New("purchase").Parse(`<html>
<body>
	<h2>Pagamento confirmado!</h2>
	<p>Olá {{.BuyerName}}, recebemos o pagamento de {{.Amount}} para a rifa <strong>{{.RaffleName}}</strong>.</p>
	{{if .Prize}}<p>Prêmio: {{.Prize}}</p>{{end}}
	<p>Seus números:</p>
	<p>{{range .Numbers}}<code>{{.}}</code> {{end}}</p>
	{{if .DrawDate}}<p>Sorteio em {{.DrawDate}}.</p>{{end}}
	{{if .Link}}<p><a href="{{.Link}}">Ver minha compra</a></p>{{end}}
	<p>Boa sorte!</p>
</body>
</html>
`))

var purchaseText = texttemplate.Must(texttemplate.New("purchase").Parse(`Pagamento confirmado!

Olá {{.BuyerName}}, recebemos o pagamento de {{.Amount}} para a rifa {{.RaffleName}}.
{{if .Prize}}Prêmio: {{.Prize}}
{{end}}
Seus números: {{.NumbersText}}
{{if .DrawDate}}Sorteio em {{.DrawDate}}.
{{end}}{{if .Link}}
Ver minha compra: {{.Link}}
{{end}}
Boa sorte!
`))

// NotifyPurchaseApproved emails the buyer the numbers they now own.
func (s *SMTPEmailService) NotifyPurchaseApproved(ctx context.Context, b *buyer.Buyer, r *raffle.Raffle, t *transaction.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	view := purchaseView{
		BuyerName:   b.Name(),
		RaffleName:  r.Name(),
		Prize:       r.Prize(),
		Numbers:     t.QuotaNumbers(),
		NumbersText: strings.Join(t.QuotaNumbers(), ", "),
		Amount:      t.Amount().Display(),
	}
	if d := r.DrawDate(); d != nil {
		view.DrawDate = biztime.FormatInBizTimezone(*d, "02/01/2006 15:04")
	}
	if s.config.BaseURL != "" {
		view.Link = fmt.Sprintf("%s/transactions/%s", strings.TrimRight(s.config.BaseURL, "/"), t.SID())
	}

	var html, plain bytes.Buffer
	if err := purchaseHTML.Execute(&html, view); err != nil {
		return fmt.Errorf("failed to render purchase email: %w", err)
	}
	if err := purchaseText.Execute(&plain, view); err != nil {
		return fmt.Errorf("failed to render purchase email: %w", err)
	}

	subject := fmt.Sprintf("Seus números da rifa %s", r.Name())
	return s.sendEmail(b.Email(), subject, html.String(), plain.String())
}
