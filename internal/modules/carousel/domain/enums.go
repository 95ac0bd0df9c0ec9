//go:generate go tool go-enum --file=$GOFILE --names --nocase

package domain

// State is the carousel state
// ENUM(empty,showing)
type State string

// Direction of a user gesture
// ENUM(next,previous)
type Direction string
