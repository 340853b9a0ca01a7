package runner

import (
	"testing"

	"github.com/enumigo/enumigo/enum"
)

func TestTypesAffected(t *testing.T) {
	ops := []enum.Operation{
		enum.Create("user_role", []string{"admin"}),
		enum.AddValues("user_role", []string{"owner"}),
		enum.Rename("user_role", "user_kind"),
		enum.Drop("order_status", nil),
	}

	got := TypesAffected(ops)
	want := "user_role,user_kind,order_status"
	if got != want {
		t.Errorf("TypesAffected = %q, want %q", got, want)
	}
}

func TestCalculateChecksumIsStable(t *testing.T) {
	a := calculateChecksum([]byte("operations: []"))
	b := calculateChecksum([]byte("operations: []"))
	c := calculateChecksum([]byte("operations: [x]"))

	if a != b {
		t.Error("checksum of identical content differs")
	}
	if a == c {
		t.Error("checksum of different content collides")
	}
	if len(a) != 64 {
		t.Errorf("expected a hex sha256, got %q", a)
	}
}
