// Package testhelpers provides utilities for testing drdp-engine components.
package testhelpers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// TestAudience is the aud claim carried by tokens from TeacherToken.
const TestAudience = "drdp-engine"

// UnsignedJWT encodes claims as an alg "none" token. Such tokens are only
// accepted when auth verification is disabled.
func UnsignedJWT(claims map[string]any) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))

	payload, err := json.Marshal(claims)
	if err != nil {
		panic(fmt.Sprintf("testhelpers: unencodable claims: %v", err))
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + "."
}

// TeacherToken returns an unsigned token for the given subject and email.
func TeacherToken(sub, email string) string {
	claims := map[string]any{"sub": sub, "aud": TestAudience}
	if email != "" {
		claims["email"] = email
	}
	return UnsignedJWT(claims)
}

// BearerHeader returns an Authorization header value for TeacherToken.
func BearerHeader(sub, email string) string {
	return "Bearer " + TeacherToken(sub, email)
}
