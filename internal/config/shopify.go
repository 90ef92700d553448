package config

type ShopifyConfig struct {
	APIKey         string   `yaml:"api_key"`
	APISecret      string   `yaml:"api_secret"`
	APIVersion     string   `yaml:"api_version"`
	Scopes         []string `yaml:"scopes"`
	MetaobjectType string   `yaml:"metaobject_type"`
}

func loadShopifyConfig() *ShopifyConfig {
	return &ShopifyConfig{
		APIKey:     getEnv("SHOPIFY_API_KEY", ""),
		APISecret:  getEnv("SHOPIFY_API_SECRET", ""),
		APIVersion: getEnv("SHOPIFY_API_VERSION", "2024-10"),
		Scopes: getEnvAsSlice("SHOPIFY_SCOPES", []string{
			"read_customers", "write_customers",
			"read_discounts", "write_discounts",
			"read_orders",
			"read_metaobjects", "write_metaobjects",
			"write_store_credit_account_transactions",
		}),
		MetaobjectType: getEnv("SHOPIFY_PARTNER_METAOBJECT_TYPE", "pro_partner"),
	}
}
