package cursor

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := NextPage("pz_0000000000000000000000ab", `game_type = "sudoku"`, true)

	token, err := Encode(original)
	if err != nil {
		t.Fatalf("encode cursor: %v", err)
	}

	decoded, err := Decode(token)
	if err != nil {
		t.Fatalf("decode cursor: %v", err)
	}

	if decoded != original {
		t.Fatalf("cursor mismatch: %+v != %+v", decoded, original)
	}
}

func TestDecodeEmptyToken(t *testing.T) {
	_, err := Decode("")
	if err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestDecodeInvalidBase64(t *testing.T) {
	_, err := Decode("not-base64@@")
	if err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestDecodeMissingLastID(t *testing.T) {
	raw, err := json.Marshal(Cursor{FilterHash: HashFilter("x")})
	if err != nil {
		t.Fatalf("marshal cursor: %v", err)
	}
	token := base64.URLEncoding.EncodeToString(raw)

	_, err = Decode(token)
	if err == nil {
		t.Fatal("expected error for cursor without last ID")
	}
}

func TestHashFilter(t *testing.T) {
	if HashFilter("") != "" {
		t.Fatal("expected empty hash for empty filter")
	}

	hash := HashFilter("foo")
	if len(hash) != 16 {
		t.Fatalf("expected 16-char hash, got %d", len(hash))
	}

	if hash == HashFilter("bar") {
		t.Fatal("expected different hashes for different filters")
	}
}

func TestValidateFilterHash(t *testing.T) {
	c := NextPage("pz_1", `difficulty = "hard"`, false)
	if err := ValidateFilterHash(c, `difficulty = "hard"`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateFilterHash(c, `difficulty = "easy"`); err == nil {
		t.Fatal("expected error for mismatched filter")
	}

	unfiltered := NextPage("pz_1", "", false)
	if err := ValidateFilterHash(unfiltered, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateFilterHash(unfiltered, `difficulty = "hard"`); err == nil {
		t.Fatal("expected error when filter appears mid-listing")
	}
}

func TestValidateDirection(t *testing.T) {
	descending := NextPage("pz_1", "", true)
	if err := ValidateDirection(descending, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateDirection(descending, false); err == nil {
		t.Fatal("expected error replaying a descending token ascending")
	}

	ascending := NextPage("pz_1", "", false)
	if err := ValidateDirection(ascending, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateDirection(ascending, true); err == nil {
		t.Fatal("expected error replaying an ascending token descending")
	}
}
