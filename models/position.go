package models

// Position is an open futures position. Amounts are kept as the decimal
// strings the exchange sends; PositionAmt is signed (negative is short).
type Position struct {
	Symbol           string `json:"symbol"`
	PositionAmt      string `json:"positionAmt"`
	EntryPrice       string `json:"entryPrice"`
	MarkPrice        string `json:"markPrice"`
	UnRealizedProfit string `json:"unRealizedProfit"`
	Leverage         string `json:"leverage"`
}

// AssetBalance is the margin balance of a single asset
type AssetBalance struct {
	Asset            string `json:"asset"`
	AvailableBalance string `json:"availableBalance"`
	WalletBalance    string `json:"walletBalance"`
	UnrealizedProfit string `json:"unrealizedProfit"`
}

// AccountBalance is a snapshot of the futures account
type AccountBalance struct {
	CanTrade bool           `json:"canTrade"`
	Assets   []AssetBalance `json:"assets"`
}
