package googleauth

import (
	cinepoll_errors "cinepoll/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Profile is the identity carried in a Google credential's claims.
type Profile struct {
	ID         string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
	Picture    string
	IDToken    string
}

// DecodeProfile extracts the profile claims from a Google ID token without
// verifying the signature. Verification belongs to the server the credential
// is exchanged with; the client only reads display fields.
func DecodeProfile(credential string) (Profile, error) {
	if credential == "" {
		return Profile{}, cinepoll_errors.ErrInvalidInput
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return Profile{}, cinepoll_errors.ErrInvalidInput
	}

	return Profile{
		ID:         stringClaim(claims, "sub"),
		Email:      stringClaim(claims, "email"),
		Name:       stringClaim(claims, "name"),
		GivenName:  stringClaim(claims, "given_name"),
		FamilyName: stringClaim(claims, "family_name"),
		Picture:    stringClaim(claims, "picture"),
		IDToken:    credential,
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return value
	}
	return ""
}
