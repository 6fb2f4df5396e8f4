package utils

import "testing"

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Toyota Camry 2021", "toyota-camry-2021"},
		{"  BMW  5 Series  ", "bmw-5-series"},
		{"Citroën C4", "citroen-c4"},
		{"Mercedes-Benz E-Class!", "mercedes-benz-e-class"},
		{"", ""},
	}
	for _, c := range cases {
		if got := GenerateSlug(c.in); got != c.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCarID(t *testing.T) {
	if got := CarID("Toyota", "Camry", 2021); got != "toyota-camry-2021" {
		t.Errorf("CarID = %q, want toyota-camry-2021", got)
	}
	if got := CarID("BMW", "5 Series", 2018); got != "bmw-5-series-2018" {
		t.Errorf("CarID = %q, want bmw-5-series-2018", got)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "admin123" {
		t.Fatal("hash equals the plaintext password")
	}
	if err := CheckPassword(hash, "admin123"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword(hash, "admin124"); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken("u-1", "jane@example.com", "user", secret)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "jane@example.com" || claims.Role != "user" {
		t.Errorf("claims mismatch: %+v", claims)
	}

	if _, err := ValidateToken(token, []byte("other-secret")); err == nil {
		t.Error("token accepted under a different key")
	}
	if _, err := ValidateToken("garbage", secret); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Errorf("ParseIntDefault(42) = %d", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Errorf("ParseIntDefault(empty) = %d", got)
	}
	if got := ParseIntDefault("nope", 7); got != 7 {
		t.Errorf("ParseIntDefault(nope) = %d", got)
	}
}
