package compiler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"command-registrar/internal/core/domain"
	"command-registrar/internal/core/ports"

	"github.com/bwmarrin/discordgo"
	"github.com/zeebo/xxh3"
)

// Batch is the ordered list of command objects submitted in one call.
type Batch []*discordgo.ApplicationCommand

func (b Batch) Names() []string {
	names := make([]string, len(b))
	for i, cmd := range b {
		names[i] = cmd.Name
	}
	return names
}

// Fingerprint hashes the JSON encoding of the batch. Equal batches always
// produce equal fingerprints.
func (b Batch) Fingerprint() (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encode batch: %w", err)
	}
	sum := xxh3.Hash128(data)
	return fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo), nil
}

type Options struct {
	// Localizer resolves "$key" and "/command" descriptions. Optional.
	Localizer ports.Localizer
	// Canary keeps CanaryOnly commands in the batch. Set for guild-scoped targets.
	Canary bool
}

type Compiler struct {
	localizer ports.Localizer
	canary    bool
}

func New(opts Options) *Compiler {
	return &Compiler{
		localizer: opts.Localizer,
		canary:    opts.Canary,
	}
}

// ExpandCommand turns one declaration into its wire objects using a
// compiler without localization.
func ExpandCommand(spec domain.CommandSpec) ([]*discordgo.ApplicationCommand, error) {
	return New(Options{Canary: true}).ExpandCommand(spec)
}

// ExpandCommand returns one command object for the declared name and one per
// alias. The objects differ only in Name.
func (c *Compiler) ExpandCommand(spec domain.CommandSpec) ([]*discordgo.ApplicationCommand, error) {
	if err := validateCommand(spec); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(spec.Aliases)+1)
	names = append(names, spec.Name)
	names = append(names, spec.Aliases...)

	commands := make([]*discordgo.ApplicationCommand, 0, len(names))
	for _, name := range names {
		cmd, err := c.build(spec)
		if err != nil {
			return nil, err
		}
		cmd.Name = name
		commands = append(commands, cmd)
	}

	return commands, nil
}

// Compile expands every spec in order into a single batch. CanaryOnly specs
// are dropped unless the compiler targets a canary guild.
func (c *Compiler) Compile(specs ...domain.CommandSpec) (Batch, error) {
	batch := make(Batch, 0, len(specs))
	seen := make(map[string]string)

	for _, spec := range specs {
		if spec.CanaryOnly && !c.canary {
			slog.Debug("Skipping canary-only command", "name", spec.Name)
			continue
		}

		expanded, err := c.ExpandCommand(spec)
		if err != nil {
			return nil, err
		}

		for _, cmd := range expanded {
			// Chat, user and message commands live in separate namespaces.
			key := fmt.Sprintf("%d/%s", cmd.Type, cmd.Name)
			if owner, ok := seen[key]; ok {
				return nil, &ValidationError{
					Command: spec.Name,
					Field:   "name",
					Err:     fmt.Errorf("%w: %q already declared by %q", ErrDuplicateName, cmd.Name, owner),
				}
			}
			seen[key] = spec.Name
			batch = append(batch, cmd)
		}
	}

	if len(batch) > MaxCommands {
		return nil, fmt.Errorf("%w: %d exceeds the limit of %d", ErrTooManyCommands, len(batch), MaxCommands)
	}

	return batch, nil
}

func (c *Compiler) build(spec domain.CommandSpec) (*discordgo.ApplicationCommand, error) {
	typ := commandType(spec)

	cmd := &discordgo.ApplicationCommand{
		Type: discordgo.ApplicationCommandType(typ),
	}

	if spec.DefaultPermission != nil {
		perm := int64(*spec.DefaultPermission)
		cmd.DefaultMemberPermissions = &perm
	}

	if typ != domain.CommandChat {
		return cmd, nil
	}

	desc, locs, err := c.describe(spec.Name, "description", spec.Description)
	if err != nil {
		return nil, err
	}
	cmd.Description = desc
	if len(locs) > 0 {
		cmd.DescriptionLocalizations = &locs
	}

	options, err := c.buildOptions(spec.Name, "options", spec.Options)
	if err != nil {
		return nil, err
	}
	cmd.Options = options

	return cmd, nil
}

func (c *Compiler) buildOptions(command, path string, opts []domain.OptionSpec) ([]*discordgo.ApplicationCommandOption, error) {
	if len(opts) == 0 {
		return nil, nil
	}

	out := make([]*discordgo.ApplicationCommandOption, 0, len(opts))
	for i, opt := range opts {
		field := fmt.Sprintf("%s[%d]", path, i)

		desc, locs, err := c.describe(command, field+".description", opt.Description)
		if err != nil {
			return nil, err
		}

		o := &discordgo.ApplicationCommandOption{
			Type:                     discordgo.ApplicationCommandOptionType(opt.Type),
			Name:                     opt.Name,
			Description:              desc,
			DescriptionLocalizations: locs,
			Required:                 opt.Required(),
			Autocomplete:             opt.Autocomplete,
			MinValue:                 opt.MinValue,
			MinLength:                opt.MinLength,
		}
		if opt.MaxValue != nil {
			o.MaxValue = *opt.MaxValue
		}
		if opt.MaxLength != nil {
			o.MaxLength = *opt.MaxLength
		}

		// Sub-commands and groups are never required.
		if opt.Type == domain.OptionSubCommand || opt.Type == domain.OptionSubCommandGroup {
			o.Required = false
		}

		for j, choice := range opt.Choices {
			built, err := c.buildChoice(command, fmt.Sprintf("%s.choices[%d].name", field, j), choice)
			if err != nil {
				return nil, err
			}
			o.Choices = append(o.Choices, built)
		}

		o.Options, err = c.buildOptions(command, field+".options", opt.Options)
		if err != nil {
			return nil, err
		}

		out = append(out, o)
	}

	return out, nil
}

func (c *Compiler) buildChoice(command, field string, choice domain.Choice) (*discordgo.ApplicationCommandOptionChoice, error) {
	name, locs, err := c.describe(command, field, choice.Name)
	if err != nil {
		return nil, err
	}

	out := &discordgo.ApplicationCommandOptionChoice{
		Name:  name,
		Value: choice.Value,
	}
	if len(locs) > 0 {
		out.NameLocalizations = locs
	}
	return out, nil
}

func (c *Compiler) describe(command, field, desc string) (string, map[discordgo.Locale]string, error) {
	if c.localizer == nil || !isKey(desc) {
		return desc, nil, nil
	}

	text, locs, ok := c.localizer.Resolve(desc)
	if !ok {
		return desc, nil, nil
	}

	if n := utf8.RuneCountInString(text); n == 0 || n > maxDescriptionLength {
		return "", nil, invalid(command, field, "localized text for %q must be 1-%d characters, got %d", desc, maxDescriptionLength, n)
	}
	for locale, s := range locs {
		if n := utf8.RuneCountInString(s); n > maxDescriptionLength {
			return "", nil, invalid(command, field, "%s text for %q is %d characters", locale, desc, n)
		}
	}

	return text, locs, nil
}

func isKey(s string) bool {
	return strings.HasPrefix(s, "$") || strings.HasPrefix(s, "/")
}
