package password

import "testing"

func TestLegacyHash(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"a", "97"},
		{"abc", "96354"},
		{"hello", "99162322"},
		// wraps past int32
		{"hello world", "1794106052"},
		{"123456", "1450575459"},
	}
	for _, tt := range tests {
		if got := LegacyHash(tt.in); got != tt.want {
			t.Errorf("LegacyHash(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestVerify_Legacy(t *testing.T) {
	stored := LegacyPrefix + LegacyHash("secret1")
	if !Verify("secret1", stored) {
		t.Errorf("Verify() = false for matching legacy hash")
	}
	if Verify("secret2", stored) {
		t.Errorf("Verify() = true for wrong password")
	}
	if !NeedsUpgrade(stored) {
		t.Errorf("NeedsUpgrade() = false for legacy hash")
	}
}

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !Verify("correct horse", hash) {
		t.Errorf("Verify() = false for matching password")
	}
	if Verify("wrong horse", hash) {
		t.Errorf("Verify() = true for wrong password")
	}
	if NeedsUpgrade(hash) {
		t.Errorf("NeedsUpgrade() = true for bcrypt hash")
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("12345") {
		t.Errorf("ValidatePassword(5 chars) = true")
	}
	if !ValidatePassword("123456") {
		t.Errorf("ValidatePassword(6 chars) = false")
	}
}
