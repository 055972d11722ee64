package domain

// Currency is an ISO 4217 code accepted for payments
type Currency string

// Supported currencies
const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyAUD Currency = "AUD"
	CurrencyZAR Currency = "ZAR"
	CurrencyCAD Currency = "CAD"
	CurrencyCHF Currency = "CHF"
	CurrencyCNY Currency = "CNY"
)

// Currencies lists every supported currency in display order
func Currencies() []Currency {
	return []Currency{
		CurrencyUSD, CurrencyEUR, CurrencyGBP,
		CurrencyJPY, CurrencyAUD, CurrencyZAR,
		CurrencyCAD, CurrencyCHF, CurrencyCNY,
	}
}

// Valid reports whether c is a supported currency
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY, CurrencyAUD,
		CurrencyZAR, CurrencyCAD, CurrencyCHF, CurrencyCNY:
		return true
	}
	return false
}
