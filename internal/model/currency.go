package model

// Currency identifies an EVM chain the bridge can talk to.
// Instances are loaded once from static configuration and never mutated.
type Currency struct {
	ID      string `mapstructure:"id" json:"id"`
	Name    string `mapstructure:"name" json:"name"`
	Unit    string `mapstructure:"unit" json:"unit"`         // native unit ticker (ETH, MATIC, ...)
	ChainID uint64 `mapstructure:"chain_id" json:"chain_id"` // EIP-155 chain id
	RPC     string `mapstructure:"rpc" json:"rpc"`           // JSON-RPC endpoint; empty means no node configured
	ScanAPI string `mapstructure:"scan_api" json:"scan_api"` // explorer REST base for transaction history
}

// HasRPC reports whether the currency carries a usable node endpoint.
func (c Currency) HasRPC() bool {
	return c.RPC != ""
}
