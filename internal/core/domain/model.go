package domain

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
)

type OptionType int

const (
	OptionSubCommand      OptionType = 1
	OptionSubCommandGroup OptionType = 2
	OptionString          OptionType = 3
	OptionInteger         OptionType = 4
	OptionBoolean         OptionType = 5
	OptionUser            OptionType = 6
	OptionChannel         OptionType = 7 // all channel types + categories
	OptionRole            OptionType = 8
	OptionMentionable     OptionType = 9  // users and roles
	OptionNumber          OptionType = 10 // any double between -2^53 and 2^53
	OptionAttachment      OptionType = 11
)

var optionTypeNames = map[OptionType]string{
	OptionSubCommand:      "SUB_COMMAND",
	OptionSubCommandGroup: "SUB_COMMAND_GROUP",
	OptionString:          "STRING",
	OptionInteger:         "INTEGER",
	OptionBoolean:         "BOOLEAN",
	OptionUser:            "USER",
	OptionChannel:         "CHANNEL",
	OptionRole:            "ROLE",
	OptionMentionable:     "MENTIONABLE",
	OptionNumber:          "NUMBER",
	OptionAttachment:      "ATTACHMENT",
}

// Casers carry state, so each lookup gets its own.
var optionByFolded = func() map[string]OptionType {
	fold := cases.Fold()
	m := make(map[string]OptionType, len(optionTypeNames))
	for t, name := range optionTypeNames {
		m[fold.String(name)] = t
	}
	return m
}()

func (t OptionType) String() string {
	if name, ok := optionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("OptionType(%d)", int(t))
}

func (t OptionType) Valid() bool {
	_, ok := optionTypeNames[t]
	return ok
}

// ParseOptionType maps a type token such as "string" or "SUB_COMMAND" to its
// OptionType. Matching is case-insensitive but otherwise exact.
func ParseOptionType(token string) (OptionType, error) {
	if t, ok := optionByFolded[cases.Fold().String(token)]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown option type %q", token)
}

type CommandType int

const (
	CommandChat    CommandType = 1
	CommandUser    CommandType = 2
	CommandMessage CommandType = 3
)

// Permission is the default_member_permissions bit set attached to a command.
type Permission int64

const (
	PermissionOwner          Permission = 0
	PermissionAdministrators Permission = 1 << 3
	PermissionManageGuild    Permission = 1 << 5
)

func PermissionPtr(p Permission) *Permission {
	return &p
}

type Choice struct {
	Name  string
	Value any
}

type OptionSpec struct {
	Name        string
	Description string
	Type        OptionType
	// Optional is false by default, so options are required unless stated otherwise.
	Optional     bool
	Autocomplete bool
	Choices      []Choice
	Options      []OptionSpec
	MinValue     *float64
	MaxValue     *float64
	MinLength    *int
	MaxLength    *int
}

func (o OptionSpec) Required() bool {
	return !o.Optional
}

type CommandSpec struct {
	Name        string
	Description string
	// Type defaults to CommandChat when zero.
	Type              CommandType
	Options           []OptionSpec
	Aliases           []string
	DefaultPermission *Permission
	// CanaryOnly commands are only registered on guild-scoped (dev) targets.
	CanaryOnly bool
}

// Target identifies where a batch is registered. An empty GuildID is the
// global (production) scope.
type Target struct {
	AppID   string `json:"app_id"`
	GuildID string `json:"guild_id,omitempty"`
}

func (t Target) Global() bool {
	return t.GuildID == ""
}

func (t Target) String() string {
	if t.Global() {
		return "global"
	}
	return "guild:" + t.GuildID
}

type SubmitMode string

const (
	ModeBulk       SubmitMode = "bulk"
	ModeSequential SubmitMode = "sequential"
	// ModeDelete marks a history entry written when a single command was
	// deleted. It is never a submission mode.
	ModeDelete SubmitMode = "delete"
)

// Deployment is a record of one successful submission.
type Deployment struct {
	Target      Target     `json:"target"`
	Fingerprint string     `json:"fingerprint"`
	Count       int        `json:"count"`
	Mode        SubmitMode `json:"mode"`
	CreatedAt   time.Time  `json:"created_at"`
}
