package googleauth

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	cinepoll_errors "cinepoll/pkg/errors"
)

func mintCredential(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing test credential: %v", err)
	}
	return signed
}

func TestDecodeProfile(t *testing.T) {
	credential := mintCredential(t, jwt.MapClaims{
		"sub":         "108",
		"email":       "ada@example.com",
		"name":        "Ada Lovelace",
		"given_name":  "Ada",
		"family_name": "Lovelace",
		"picture":     "https://example.com/ada.png",
	})

	profile, err := DecodeProfile(credential)
	if err != nil {
		t.Fatalf("DecodeProfile failed: %v", err)
	}
	if profile.ID != "108" {
		t.Errorf("ID = %q", profile.ID)
	}
	if profile.Email != "ada@example.com" {
		t.Errorf("Email = %q", profile.Email)
	}
	if profile.Name != "Ada Lovelace" {
		t.Errorf("Name = %q", profile.Name)
	}
	if profile.GivenName != "Ada" || profile.FamilyName != "Lovelace" {
		t.Errorf("name parts = %q %q", profile.GivenName, profile.FamilyName)
	}
	if profile.IDToken != credential {
		t.Error("credential not carried through")
	}
}

func TestDecodeProfileMissingClaims(t *testing.T) {
	credential := mintCredential(t, jwt.MapClaims{"sub": "108"})

	profile, err := DecodeProfile(credential)
	if err != nil {
		t.Fatalf("DecodeProfile failed: %v", err)
	}
	if profile.ID != "108" {
		t.Errorf("ID = %q", profile.ID)
	}
	if profile.Email != "" || profile.Name != "" {
		t.Errorf("absent claims should read empty, got %q %q", profile.Email, profile.Name)
	}
}

func TestDecodeProfileRejectsGarbage(t *testing.T) {
	for _, credential := range []string{"", "not-a-jwt", "a.b"} {
		_, err := DecodeProfile(credential)
		if !errors.Is(err, cinepoll_errors.ErrInvalidInput) {
			t.Errorf("DecodeProfile(%q) = %v, want ErrInvalidInput", credential, err)
		}
	}
}
