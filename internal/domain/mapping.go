package domain

// MappingEntry associates one distributor stock code with a billing product.
// The reference and description are hints captured by the mapping editor for
// display; only the stock code participates in matching.
type MappingEntry struct {
	ManufacturerStockCode string `json:"manufacturer_stock_code"`
	SubscriptionReference string `json:"subscription_reference"`
	StockDescription      string `json:"stock_description"`
}

// ProductMapping maps one billing product to the distributor stock codes it
// is sold under. JSON tags follow the persisted mapping file format, which is
// shared with the mapping editor.
type ProductMapping struct {
	ProductID   int            `json:"whmcs_id"`
	ProductName string         `json:"whmcs_product_name"`
	Entries     []MappingEntry `json:"dicker"`
}

// MappingFile is the persisted envelope of the mapping store.
type MappingFile struct {
	D []ProductMapping `json:"d"`
}
