package compiler

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"command-registrar/internal/core/domain"
)

// Discord limits for application commands.
const (
	MaxCommands          = 100
	maxNameLength        = 32
	maxDescriptionLength = 100
	maxOptions           = 25
	maxChoices           = 25
)

var chatNamePattern = regexp.MustCompile(`^[-_\p{L}\p{N}\p{Devanagari}\p{Thai}]{1,32}$`)

func validateCommand(spec domain.CommandSpec) error {
	names := append([]string{spec.Name}, spec.Aliases...)

	switch commandType(spec) {
	case domain.CommandChat:
		for _, name := range names {
			if err := validateChatName(name); err != nil {
				return &ValidationError{Command: spec.Name, Field: "name", Err: err}
			}
		}
		if err := validateDescription(spec.Description); err != nil {
			return &ValidationError{Command: spec.Name, Field: "description", Err: err}
		}
		if err := validateOptions(spec.Name, "options", spec.Options, false); err != nil {
			return err
		}
	case domain.CommandUser, domain.CommandMessage:
		for _, name := range names {
			if n := utf8.RuneCountInString(name); n == 0 || n > maxNameLength {
				return invalid(spec.Name, "name", "must be 1-%d characters, got %d", maxNameLength, n)
			}
		}
		if len(spec.Options) > 0 {
			return invalid(spec.Name, "options", "context menu commands cannot have options")
		}
	default:
		return invalid(spec.Name, "type", "unknown command type %d", spec.Type)
	}

	if spec.DefaultPermission != nil && *spec.DefaultPermission < 0 {
		return invalid(spec.Name, "default_member_permissions", "must not be negative")
	}

	return nil
}

func validateChatName(name string) error {
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if !chatNamePattern.MatchString(name) {
		return fmt.Errorf("%q must be 1-%d letters, digits, '-' or '_'", name, maxNameLength)
	}
	if strings.ToLower(name) != name {
		return fmt.Errorf("%q must be lowercase", name)
	}
	return nil
}

func validateDescription(desc string) error {
	n := utf8.RuneCountInString(desc)
	if n == 0 {
		return fmt.Errorf("description is empty")
	}
	if n > maxDescriptionLength {
		return fmt.Errorf("must be at most %d characters, got %d", maxDescriptionLength, n)
	}
	return nil
}

func validateOptions(command, path string, opts []domain.OptionSpec, inSubCommand bool) error {
	if len(opts) > maxOptions {
		return invalid(command, path, "at most %d options allowed, got %d", maxOptions, len(opts))
	}

	seenOptional := false
	seen := make(map[string]bool, len(opts))

	for i, opt := range opts {
		field := fmt.Sprintf("%s[%d]", path, i)

		if !opt.Type.Valid() {
			return invalid(command, field+".type", "unknown option type %d", int(opt.Type))
		}
		if err := validateChatName(opt.Name); err != nil {
			return &ValidationError{Command: command, Field: field + ".name", Err: err}
		}
		if seen[opt.Name] {
			return invalid(command, field+".name", "duplicate option %q", opt.Name)
		}
		seen[opt.Name] = true

		if err := validateDescription(opt.Description); err != nil {
			return &ValidationError{Command: command, Field: field + ".description", Err: err}
		}

		switch opt.Type {
		case domain.OptionSubCommandGroup:
			if inSubCommand {
				return invalid(command, field, "sub-command groups cannot be nested")
			}
			for j, sub := range opt.Options {
				if sub.Type != domain.OptionSubCommand {
					return invalid(command, fmt.Sprintf("%s.options[%d]", field, j), "sub-command groups may only contain sub-commands")
				}
			}
			if err := validateOptions(command, field+".options", opt.Options, false); err != nil {
				return err
			}
			continue
		case domain.OptionSubCommand:
			if inSubCommand {
				return invalid(command, field, "sub-commands cannot be nested")
			}
			if err := validateOptions(command, field+".options", opt.Options, true); err != nil {
				return err
			}
			continue
		}

		if len(opt.Options) > 0 {
			return invalid(command, field+".options", "only sub-commands and groups can have nested options")
		}

		if opt.Optional {
			seenOptional = true
		} else if seenOptional {
			return invalid(command, field, "required option %q must come before optional ones", opt.Name)
		}

		if err := validateChoices(command, field, opt); err != nil {
			return err
		}
	}

	return nil
}

func validateChoices(command, field string, opt domain.OptionSpec) error {
	if len(opt.Choices) == 0 {
		return nil
	}

	switch opt.Type {
	case domain.OptionString, domain.OptionInteger, domain.OptionNumber:
	default:
		return invalid(command, field+".choices", "choices are not supported on %s options", opt.Type)
	}
	if opt.Autocomplete {
		return invalid(command, field+".choices", "choices cannot be combined with autocomplete")
	}
	if len(opt.Choices) > maxChoices {
		return invalid(command, field+".choices", "at most %d choices allowed, got %d", maxChoices, len(opt.Choices))
	}
	for j, c := range opt.Choices {
		if n := utf8.RuneCountInString(c.Name); n == 0 || n > maxDescriptionLength {
			return invalid(command, fmt.Sprintf("%s.choices[%d].name", field, j), "must be 1-%d characters", maxDescriptionLength)
		}
	}

	return nil
}

func commandType(spec domain.CommandSpec) domain.CommandType {
	if spec.Type == 0 {
		return domain.CommandChat
	}
	return spec.Type
}
