package jwt_test

import (
	"testing"
	"time"

	"calbox/src-server/jwt"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := jwt.Payload{
		UserID:    "u1",
		Email:     "ann@example.com",
		IssuedAt:  time.Now().UTC().Unix(),
		ExpiresAt: time.Now().UTC().Add(time.Hour).Unix(),
	}

	token, err := jwt.Encode(payload, "secret")
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := jwt.Decode(token, "secret")
	if err != nil {
		t.Fatal(err)
	}
	if decoded.UserID != payload.UserID || decoded.Email != payload.Email {
		t.Errorf("payload mismatch: %+v", decoded)
	}
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	token, err := jwt.Encode(jwt.Payload{UserID: "u1"}, "secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jwt.Decode(token, "other-secret"); err == nil {
		t.Error("token signed with a different secret must be rejected")
	}
}

func TestDecodeRejectsExpired(t *testing.T) {
	token, err := jwt.Encode(jwt.Payload{
		UserID:    "u1",
		IssuedAt:  time.Now().UTC().Add(-2 * time.Hour).Unix(),
		ExpiresAt: time.Now().UTC().Add(-time.Hour).Unix(),
	}, "secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jwt.Decode(token, "secret"); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "a.b", "a.b.c.d", "!!!.???.###"} {
		if _, err := jwt.Decode(bad, "secret"); err == nil {
			t.Errorf("Decode(%q) must fail", bad)
		}
	}
}
