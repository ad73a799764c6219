// Package models holds the gorm models of the persistence layer.
package models

// All lists every model, in the order they are migrated.
func All() []any {
	return []any{
		&Image{},
		&Team{},
		&User{},
		&OAuthToken{},
	}
}
