package domain

// SwiftCode is the bank identifier code of a receiving bank
type SwiftCode string

// Whitelisted receiving banks
const (
	SwiftAbsa         SwiftCode = "ABSAZAJJ"
	SwiftStandardBank SwiftCode = "SBZAZAJJ"
	SwiftFNB          SwiftCode = "FIRNZAJJ"
	SwiftNedbank      SwiftCode = "NEDSZAJJ"
	SwiftCapitec      SwiftCode = "CABLZAJJ"
	SwiftInvestec     SwiftCode = "INVZZAJJ"
	SwiftAfricanBank  SwiftCode = "AFSIZAJJ"
	SwiftHSBC         SwiftCode = "HSBCZAJJ"
	SwiftRandMerchant SwiftCode = "RMBKZAJJ"
)

// Bank pairs a whitelisted SWIFT code with the bank it belongs to
type Bank struct {
	Name string    `json:"bank"` // Bank display name
	Code SwiftCode `json:"code"` // SWIFT code
}

var banks = []Bank{
	{Name: "Absa Bank", Code: SwiftAbsa},
	{Name: "Standard Bank", Code: SwiftStandardBank},
	{Name: "First National Bank (FNB)", Code: SwiftFNB},
	{Name: "Nedbank", Code: SwiftNedbank},
	{Name: "Capitec Bank", Code: SwiftCapitec},
	{Name: "Investec Bank", Code: SwiftInvestec},
	{Name: "African Bank", Code: SwiftAfricanBank},
	{Name: "HSBC Bank", Code: SwiftHSBC},
	{Name: "Rand Merchant Bank", Code: SwiftRandMerchant},
}

// Banks returns the SWIFT whitelist
func Banks() []Bank {
	out := make([]Bank, len(banks))
	copy(out, banks)
	return out
}

// Valid reports whether s is on the whitelist
func (s SwiftCode) Valid() bool {
	_, ok := s.Bank()
	return ok
}

// Bank looks up the bank that owns s
func (s SwiftCode) Bank() (Bank, bool) {
	for _, b := range banks {
		if b.Code == s {
			return b, true
		}
	}
	return Bank{}, false
}
