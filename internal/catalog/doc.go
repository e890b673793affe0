// Package catalog holds the reference data for app identification: every
// known application with its canonical name, package id, store link, icon,
// aliases, keywords and brand colors.
//
// # Loading
//
// The built-in catalog is embedded from apps.toml and loaded with Default.
// LoadFile and Parse read a replacement catalog in the same TOML layout:
//
//	[[app]]
//	name = "WhatsApp"
//	package = "com.whatsapp"
//	aliases = ["ватсап", "WA"]
//	keywords = ["whatsap"]
//	brand_colors = ["#25D366"]
//	popularity = 1
//
// # Validation
//
// A malformed entry never aborts loading:
//   - missing name: entry dropped, warning recorded
//   - duplicate name (case-insensitive): later entry dropped, warning recorded
//   - unparsable brand color: that color dropped, warning recorded
//
// Warnings are logged and available from Catalog.Warnings. Only a catalog
// with no usable entries fails, with ErrEmptyCatalog.
//
// # Thread Safety
//
// A Catalog is never modified after construction and may be shared freely
// between goroutines.
package catalog
