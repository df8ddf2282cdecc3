// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel and the list of managed models
// - partner.go: clients and their brand/size preference links
// - catalog.go: brands and sizes
// - trade.go: the sales ledger
// - import_history.go: spreadsheet import runs
package models
