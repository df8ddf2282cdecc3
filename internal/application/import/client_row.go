package importapp

import (
	"math"
	"time"

	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
	"github.com/shopspring/decimal"
)

// Column aliases recognised in client exports, in priority order
var (
	nameColumns          = []string{"cliente", "nome", "name"}
	taxIDColumns         = []string{"cpf", "documento"}
	phoneColumns         = []string{"telefone", "telefone_1", "celular"}
	birthDateColumns     = []string{"data_nascimento", "aniversario"}
	salespersonColumns   = []string{"vendedora", "ultimo_vendedor", "vendedora_responsavel"}
	totalSpendColumns    = []string{"total_gasto", "val_compras", "valor_total"}
	averageTicketColumns = []string{"ticket_medio"}
	lastPurchaseColumns  = []string{"data_ultima_compra", "ultima_compra"}
	brandColumns         = []string{"marcas", "marcas_preferidas"}
	clothingSizeColumns  = []string{"tamanhos_roupa", "tamanho_roupa"}
	shoeSizeColumns      = []string{"tamanhos_calcado", "tamanho_calcado"}

	purchaseCountColumns = []string{
		"qtde_compras_total",
		"quantidade_compras",
		"qtd_compras",
		"num_compras",
		"total_compras",
		"compras",
	}
)

// ClientRow is the strict record projected from one sheet row
type ClientRow struct {
	LineNumber    int
	Name          string
	TaxID         string
	Phone         string
	BirthDate     *time.Time
	Salesperson   string
	TotalSpend    decimal.Decimal
	PurchaseCount int
	AverageTicket decimal.Decimal
	LastPurchase  *time.Time
	Brands        []string
	ClothingSizes []string
	ShoeSizes     []string
}

// ProjectClientRow reads every recognised column of a row once, so nothing
// downstream touches the loosely typed cells.
func ProjectClientRow(row *sheetimport.Row) ClientRow {
	cr := ClientRow{
		LineNumber:    row.LineNumber,
		Name:          lookupString(row, nameColumns),
		TaxID:         lookupString(row, taxIDColumns),
		Phone:         lookupString(row, phoneColumns),
		Salesperson:   lookupString(row, salespersonColumns),
		TotalSpend:    lookupMoney(row, totalSpendColumns),
		AverageTicket: lookupMoney(row, averageTicketColumns),
		Brands:        lookupTokens(row, brandColumns, SanitizeBrandToken),
		ClothingSizes: lookupTokens(row, clothingSizeColumns, SanitizeClothingSizeToken),
		ShoeSizes:     lookupTokens(row, shoeSizeColumns, SanitizeShoeSizeToken),
	}

	if v, ok := row.Lookup(birthDateColumns...); ok {
		cr.BirthDate = ConvertDateSerial(v)
	}
	if v, ok := row.Lookup(lastPurchaseColumns...); ok {
		cr.LastPurchase = ConvertDateSerial(v)
	}

	cr.PurchaseCount = purchaseCount(row, cr.TotalSpend, cr.AverageTicket)
	return cr
}

// purchaseCount takes the first alias with a positive count. When none has
// one it is derived from spend and average ticket.
func purchaseCount(row *sheetimport.Row, spend, ticket decimal.Decimal) int {
	for _, col := range purchaseCountColumns {
		if n := NormalizeInteger(row.Get(col)); n > 0 {
			return n
		}
	}

	if spend.IsPositive() && ticket.IsPositive() {
		derived, _ := spend.Div(ticket).Float64()
		if rounded := math.Round(derived); rounded > 0 && rounded <= math.MaxInt32 {
			return int(rounded)
		}
	}
	return 0
}

func lookupString(row *sheetimport.Row, columns []string) string {
	v, _ := row.Lookup(columns...)
	return sheetimport.CellString(v)
}

func lookupMoney(row *sheetimport.Row, columns []string) decimal.Decimal {
	v, ok := row.Lookup(columns...)
	if !ok {
		return decimal.Zero
	}
	return NormalizeMoney(v)
}

// lookupTokens parses a list cell and keeps the distinct canonical tokens
func lookupTokens(row *sheetimport.Row, columns []string, sanitize func(string) (string, bool)) []string {
	out := make([]string, 0)
	v, ok := row.Lookup(columns...)
	if !ok {
		return out
	}

	seen := make(map[string]struct{})
	for _, raw := range ParsePseudoArray(v) {
		token, ok := sanitize(raw)
		if !ok {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}
