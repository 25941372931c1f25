package authcore

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestParseEmail(t *testing.T) {
	if _, err := ParseEmail("a@b.com"); err != nil {
		t.Fatalf("ParseEmail rejected a valid address: %v", err)
	}
	for _, raw := range []string{"", "no-separator"} {
		if _, err := ParseEmail(raw); err == nil {
			t.Fatalf("ParseEmail accepted %q", raw)
		}
	}
}

func TestParsePasswordLength(t *testing.T) {
	if _, err := ParsePassword("12345678"); err != nil {
		t.Fatalf("ParsePassword rejected an 8-byte password: %v", err)
	}
	if _, err := ParsePassword("1234567"); err == nil {
		t.Fatal("ParsePassword accepted a 7-byte password")
	}
}

func TestParseTwoFACodeRange(t *testing.T) {
	for _, raw := range []string{"100000", "999999", "123456"} {
		if _, err := ParseTwoFACode(raw); err != nil {
			t.Fatalf("ParseTwoFACode rejected %q: %v", raw, err)
		}
	}
	for _, raw := range []string{"", "12345", "1234567", "099999", "abcdef", "12 456"} {
		if _, err := ParseTwoFACode(raw); err == nil {
			t.Fatalf("ParseTwoFACode accepted %q", raw)
		}
	}
}

func TestGenerateTwoFACodeStaysInRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateTwoFACode()
		if err != nil {
			t.Fatalf("GenerateTwoFACode failed: %v", err)
		}
		if _, err := ParseTwoFACode(code.Expose()); err != nil {
			t.Fatalf("generated code %q does not round-trip: %v", code.Expose(), err)
		}
	}
}

func TestParseLoginAttemptID(t *testing.T) {
	id := NewLoginAttemptID()
	parsed, err := ParseLoginAttemptID(id.String())
	if err != nil {
		t.Fatalf("ParseLoginAttemptID rejected a generated id: %v", err)
	}
	if !parsed.Equal(id) {
		t.Fatal("parsed id does not equal the original")
	}
	if _, err := ParseLoginAttemptID("not-a-uuid"); err == nil {
		t.Fatal("ParseLoginAttemptID accepted garbage")
	}
}

func TestSecretsRedactThemselves(t *testing.T) {
	pw, err := ParsePassword("password123")
	if err != nil {
		t.Fatalf("ParsePassword failed: %v", err)
	}
	code, err := ParseTwoFACode("123456")
	if err != nil {
		t.Fatalf("ParseTwoFACode failed: %v", err)
	}

	for name, rendered := range map[string]string{
		"password %v":  fmt.Sprintf("%v", pw),
		"password %s":  fmt.Sprintf("%s", pw),
		"password %+v": fmt.Sprintf("%+v", pw),
		"password %#v": fmt.Sprintf("%#v", pw),
		"code %v":      fmt.Sprintf("%v", code),
		"code %#v":     fmt.Sprintf("%#v", code),
	} {
		if strings.Contains(rendered, "password123") || strings.Contains(rendered, "123456") {
			t.Fatalf("%s leaked the secret: %s", name, rendered)
		}
		if !strings.Contains(rendered, "REDACTED") {
			t.Fatalf("%s did not redact: %s", name, rendered)
		}
	}

	data, err := json.Marshal(struct {
		Password Password  `json:"password"`
		Code     TwoFACode `json:"code"`
	}{pw, code})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "password123") || strings.Contains(string(data), "123456") {
		t.Fatalf("JSON leaked a secret: %s", data)
	}

	if pw.Expose() != "password123" {
		t.Fatal("Expose must return the raw value")
	}
}
