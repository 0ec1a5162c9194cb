package commands

import "command-registrar/internal/core/domain"

var manageGuild = domain.PermissionPtr(domain.PermissionManageGuild)

// Builtin returns the commands every deployment registers, in submission
// order. Pack manifests add to this list.
func Builtin() []domain.CommandSpec {
	return []domain.CommandSpec{
		{
			Name:        "search",
			Description: "Search for an anime/manga",
			Aliases:     []string{"anime", "manga", "media", "series"},
			Options: []domain.OptionSpec{
				stringOption("title", "The title of an anime/manga", true),
				optional(boolOption("debug", "Show debug information")),
				optional(boolOption("characters", "List the media's characters")),
			},
		},
		{
			Name:        "character",
			Description: "Search for a character",
			Options: []domain.OptionSpec{
				stringOption("name", "The name of the character", true),
				optional(boolOption("debug", "Show debug information")),
			},
		},
		{
			Name:        "found",
			Description: "List characters you found from a media",
			Aliases:     []string{"owned"},
			Options: []domain.OptionSpec{
				stringOption("title", "The title of an anime/manga", true),
			},
		},
		{
			Name:        "like",
			Description: "Like a character to be notified when someone finds it",
			Aliases:     []string{"protect", "wish"},
			Options: []domain.OptionSpec{
				stringOption("name", "The name of the character", true),
			},
		},
		{
			Name:        "unlike",
			Description: "Remove a character from your likes",
			Options: []domain.OptionSpec{
				stringOption("name", "The name of the character", true),
			},
		},
		{
			Name:        "help",
			Description: "Learn how to play",
			Aliases:     []string{"start", "guide", "wiki", "tuto"},
			Options: []domain.OptionSpec{
				optional(choiceOption("page", "The help page to open", []domain.Choice{
					{Name: "Gacha", Value: 0},
					{Name: "Merging", Value: 1},
					{Name: "Party", Value: 2},
					{Name: "Stealing", Value: 3},
					{Name: "Combat", Value: 4},
					{Name: "Shop", Value: 5},
				})),
			},
		},
		{
			Name:        "now",
			Description: "Check what you can do right now",
			Aliases:     []string{"tu"},
		},
		{
			Name:        "gacha",
			Description: "An experimental/ephemeral gacha command",
			Aliases:     []string{"w"},
		},
		{
			Name:        "pull",
			Description: "Pull a character with a guaranteed rating",
			Aliases:     []string{"guaranteed"},
			Options: []domain.OptionSpec{
				choiceOption("stars", "The star rating to pull", spots(3)),
			},
		},
		{
			Name:        "merge",
			Description: "Merge characters into a higher rating",
			Aliases:     []string{"synthesize"},
			Options: []domain.OptionSpec{
				choiceOption("target", "The target star rating", spots(2)),
			},
		},
		{
			Name:        "buy",
			Description: "Token shop commands",
			Aliases:     []string{"shop"},
			Options: []domain.OptionSpec{
				subCommand("normal", "Buy normal pulls",
					rangeOption("amount", "The number of pulls to buy", 1, 99)),
				subCommand("guaranteed", "Buy a guaranteed pull",
					choiceOption("stars", "The star rating to buy", spots(3))),
				subCommand("keys", "Buy tower keys",
					rangeOption("amount", "The number of keys to buy", 1, 99)),
			},
		},
		{
			Name: "Party",
			Type: domain.CommandUser,
		},
		{
			Name:        "party",
			Description: "Party management commands",
			Aliases:     []string{"team", "p"},
			Options: []domain.OptionSpec{
				subCommand("view", "View a party",
					optional(userOption("user", "The user whose party to view"))),
				subCommand("assign", "Assign a character to your party",
					stringOption("name", "The name of the character", true),
					optional(choiceOption("spot", "The spot to assign to", spots(1)))),
				subCommand("remove", "Remove a character from your party",
					choiceOption("spot", "The spot to clear", spots(1))),
				subCommand("clear", "Remove every character from your party"),
			},
		},
		{
			Name:              "packs",
			Description:       "Community packs management commands",
			DefaultPermission: manageGuild,
			Options: []domain.OptionSpec{
				subCommand("installed", "List installed packs"),
				subCommand("install", "Install a pack",
					stringOption("id", "The id of the pack", false)),
				subCommand("uninstall", "Uninstall a pack",
					stringOption("id", "The id of the pack", true)),
			},
		},
		{
			Name:              "reward",
			Description:       "Reward commands",
			DefaultPermission: manageGuild,
			Options: []domain.OptionSpec{
				subCommand("pulls", "Reward a user with pulls",
					userOption("user", "The user to reward"),
					rangeOption("amount", "The number of pulls", 1, 99)),
			},
		},
		{
			Name:        "dice",
			Description: "Roll a ten-sided dice",
			Aliases:     []string{"roll"},
			Options: []domain.OptionSpec{
				rangeOption("amount", "The number of dices to roll", 1, 20),
			},
		},
		{
			Name:        "next_episode",
			Description: "Find when is the next episode for an anime",
			CanaryOnly:  true,
			Options: []domain.OptionSpec{
				stringOption("title", "The title of an anime", false),
			},
		},
	}
}

func stringOption(name, description string, autocomplete bool) domain.OptionSpec {
	return domain.OptionSpec{
		Type:         domain.OptionString,
		Name:         name,
		Description:  description,
		Autocomplete: autocomplete,
	}
}

func boolOption(name, description string) domain.OptionSpec {
	return domain.OptionSpec{Type: domain.OptionBoolean, Name: name, Description: description}
}

func userOption(name, description string) domain.OptionSpec {
	return domain.OptionSpec{Type: domain.OptionUser, Name: name, Description: description}
}

func rangeOption(name, description string, lo, hi float64) domain.OptionSpec {
	return domain.OptionSpec{
		Type:        domain.OptionInteger,
		Name:        name,
		Description: description,
		MinValue:    &lo,
		MaxValue:    &hi,
	}
}

func choiceOption(name, description string, choices []domain.Choice) domain.OptionSpec {
	return domain.OptionSpec{
		Type:        domain.OptionInteger,
		Name:        name,
		Description: description,
		Choices:     choices,
	}
}

func subCommand(name, description string, options ...domain.OptionSpec) domain.OptionSpec {
	return domain.OptionSpec{
		Type:        domain.OptionSubCommand,
		Name:        name,
		Description: description,
		Optional:    true,
		Options:     options,
	}
}

func optional(o domain.OptionSpec) domain.OptionSpec {
	o.Optional = true
	return o
}

// spots lists star ratings 5 down to from.
func spots(from int) []domain.Choice {
	var out []domain.Choice
	for i := 5; i >= from; i-- {
		out = append(out, domain.Choice{Name: string(rune('0' + i)), Value: i})
	}
	return out
}
