package models

// All lists every persisted model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Store{},
		&Customer{},
		&Category{},
		&Brand{},
		&Product{},
		&ProductPricing{},
		&ProductDescriptionDetail{},
		&ProductOption{},
		&ProductCategory{},
		&ProductUpsell{},
		&ProductCrossSell{},
		&ProductVariant{},
		&ProductVariantOption{},
		&Supplier{},
		&SupplierEmail{},
		&SupplierPhone{},
		&SupplierAddress{},
		&Invoice{},
		&InvoiceItem{},
		&UserKycProfile{},
		&BusinessKyc{},
		&KycDocument{},
		&Pep{},
		&ShippingConfig{},
		&ShippingMethod{},
		&StoreSettings{},
		&Location{},
	}
}
