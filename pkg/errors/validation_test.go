package errors

import (
	"testing"
)

func TestValidateFactoryKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Sequencer", false},
		{"valid with digits", "Osc2", false},
		{"valid with underscore", "Key_Input", false},

		{"empty", "", true},
		{"leading digit", "2Osc", true},
		{"with dash", "my-unit", true},
		{"with slash", "Control/Number", true},
		{"path traversal", "..", true},
		{"control char", "Num\x01ber", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFactoryKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFactoryKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidKey {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidKey)
			}
		})
	}
}

func TestValidateProgramName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Oscillators/Sine", false},
		{"valid with space", "Sample Players/Loop", false},
		{"valid with dot", "fx/delay.v2", false},

		{"empty", "", true},
		{"no category", "Sine", true},
		{"nested", "a/b/c", true},
		{"traversal", "../etc/passwd", true},
		{"backslash", "fx\\delay", true},
		{"trailing slash", "fx/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProgramName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProgramName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAssetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid wav", "kick.wav", false},
		{"valid png", "texture 01.png", false},

		{"empty", "", true},
		{"with path /", "Assets/kick.wav", true},
		{"with path \\", "Assets\\kick.wav", true},
		{"hidden file", ".kick.wav", true},
		{"null byte", "kick\x00.wav", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateProjectPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "song.rt", false},
		{"absolute", "/home/user/song_RayToneProject/song.rt", false},
		{"upper extension", "SONG.RT", false},

		{"empty", "", true},
		{"wrong extension", "song.json", true},
		{"no extension", "song", true},
		{"control char", "so\nng.rt", true},
		{"too long", string(make([]byte, 600)) + ".rt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSnapshotID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "0b6f4a4e-5d1c-4a39-9a55-6a3c1f9e2b7d", false},

		{"empty", "", true},
		{"uppercase", "0B6F4A4E-5D1C-4A39-9A55-6A3C1F9E2B7D", true},
		{"short", "0b6f4a4e", true},
		{"path", "../0b6f4a4e-5d1c-4a39-9a55-6a3c1f9e2b7d", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSnapshotID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSnapshotID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
