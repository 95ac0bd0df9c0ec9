//go:generate go tool go-enum --file=$GOFILE --names --nocase

package config

// UIMode selects which shells render the panel
// ENUM(tui,http,both)
type UIMode string

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string
