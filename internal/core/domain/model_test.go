package domain

import "testing"

func TestParseOptionType(t *testing.T) {
	tests := []struct {
		token   string
		want    OptionType
		wantErr bool
	}{
		{"string", OptionString, false},
		{"STRING", OptionString, false},
		{"String", OptionString, false},
		{"sub_command", OptionSubCommand, false},
		{"SUB_COMMAND_GROUP", OptionSubCommandGroup, false},
		{"integer", OptionInteger, false},
		{"boolean", OptionBoolean, false},
		{"user", OptionUser, false},
		{"channel", OptionChannel, false},
		{"role", OptionRole, false},
		{"mentionable", OptionMentionable, false},
		{"number", OptionNumber, false},
		{"attachment", OptionAttachment, false},
		{"vector3", 0, true},
		{"str", 0, true},
		{" string", 0, true},
		{"subcommand", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseOptionType(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOptionType(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOptionType(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestOptionType_Values(t *testing.T) {
	// Discord's numeric option-type codes.
	want := map[OptionType]int{
		OptionSubCommand:      1,
		OptionSubCommandGroup: 2,
		OptionString:          3,
		OptionInteger:         4,
		OptionBoolean:         5,
		OptionUser:            6,
		OptionChannel:         7,
		OptionRole:            8,
		OptionMentionable:     9,
		OptionNumber:          10,
		OptionAttachment:      11,
	}
	for typ, code := range want {
		if int(typ) != code {
			t.Errorf("%s = %d, want %d", typ, int(typ), code)
		}
		if !typ.Valid() {
			t.Errorf("%s should be valid", typ)
		}
	}

	if OptionType(0).Valid() || OptionType(12).Valid() {
		t.Error("out-of-range option types must be invalid")
	}
	if got := OptionType(42).String(); got != "OptionType(42)" {
		t.Errorf("unexpected String() for unknown type: %q", got)
	}
}

func TestOptionSpec_RequiredByDefault(t *testing.T) {
	if !(OptionSpec{}).Required() {
		t.Error("options must be required unless marked optional")
	}
	if (OptionSpec{Optional: true}).Required() {
		t.Error("optional option reported as required")
	}
}

func TestTarget(t *testing.T) {
	global := Target{AppID: "app"}
	if !global.Global() || global.String() != "global" {
		t.Errorf("unexpected global target: %v", global)
	}

	guild := Target{AppID: "app", GuildID: "123"}
	if guild.Global() || guild.String() != "guild:123" {
		t.Errorf("unexpected guild target: %v", guild)
	}
}
