package config

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // database name, or the file path when GormEngine is sqlite
	GormEngine string // mysql, postgres or sqlite
}
