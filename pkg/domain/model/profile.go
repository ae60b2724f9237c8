package model

// BotProfile is the optional bot customization loaded from a TOML file:
// a display name and free-form guidance appended to every system prompt.
type BotProfile struct {
	Name     string `toml:"name"`
	Guidance string `toml:"guidance"`
}
