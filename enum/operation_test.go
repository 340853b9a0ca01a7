package enum

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recorder captures which mutator action an operation drove.
type recorder struct {
	calls []string
}

func (r *recorder) Create(ctx context.Context, name string, values []string) error {
	r.calls = append(r.calls, "create "+name+" "+join(values))
	return nil
}

func (r *recorder) Drop(ctx context.Context, name string) error {
	r.calls = append(r.calls, "drop "+name)
	return nil
}

func (r *recorder) Change(ctx context.Context, name string, add, remove []string) error {
	r.calls = append(r.calls, "change "+name+" add="+join(add)+" remove="+join(remove))
	return nil
}

func (r *recorder) Rename(ctx context.Context, from, to string) error {
	r.calls = append(r.calls, "rename "+from+" "+to)
	return nil
}

func join(values []string) string {
	out := "["
	for i, v := range values {
		if i > 0 {
			out += " "
		}
		out += v
	}
	return out + "]"
}

func TestOperationApplyRevertPairs(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		op         Operation
		wantApply  string
		wantRevert string
	}{
		{
			name:       "create",
			op:         Create("user_role", []string{"admin", "user"}),
			wantApply:  "create user_role [admin user]",
			wantRevert: "drop user_role",
		},
		{
			name:       "drop with values",
			op:         Drop("user_role", []string{"admin", "user"}),
			wantApply:  "drop user_role",
			wantRevert: "create user_role [admin user]",
		},
		{
			name:       "change values",
			op:         ChangeValues("user_role", []string{"baz"}, []string{"foo"}),
			wantApply:  "change user_role add=[baz] remove=[foo]",
			wantRevert: "change user_role add=[foo] remove=[baz]",
		},
		{
			name:       "add values",
			op:         AddValues("user_role", []string{"suspended"}),
			wantApply:  "change user_role add=[suspended] remove=[]",
			wantRevert: "change user_role add=[] remove=[suspended]",
		},
		{
			name:       "remove values",
			op:         RemoveValues("user_role", []string{"suspended"}),
			wantApply:  "change user_role add=[] remove=[suspended]",
			wantRevert: "change user_role add=[suspended] remove=[]",
		},
		{
			name:       "rename",
			op:         Rename("user_role", "user_kind"),
			wantApply:  "rename user_role user_kind",
			wantRevert: "rename user_kind user_role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			if err := tt.op.Apply(ctx, rec); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if err := tt.op.Revert(ctx, rec); err != nil {
				t.Fatalf("Revert: %v", err)
			}
			if diff := cmp.Diff([]string{tt.wantApply, tt.wantRevert}, rec.calls); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDropWithoutValuesIsIrreversible(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	op := Drop("user_role", nil)

	if err := op.Apply(ctx, rec); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	err := op.Revert(ctx, rec)
	if !errors.Is(err, ErrIrreversible) {
		t.Fatalf("expected ErrIrreversible, got %v", err)
	}
	if diff := cmp.Diff([]string{"drop user_role"}, rec.calls); diff != "" {
		t.Errorf("no mutation should run on an irreversible revert (-want +got):\n%s", diff)
	}

	if _, err := op.Inverse(); !errors.Is(err, ErrIrreversible) {
		t.Errorf("Inverse should report ErrIrreversible, got %v", err)
	}
}

func TestInverseMirrorsRevert(t *testing.T) {
	tests := []struct {
		op   Operation
		want Operation
	}{
		{Create("a", []string{"x"}), Drop("a", []string{"x"})},
		{Drop("a", []string{"x"}), Create("a", []string{"x"})},
		{ChangeValues("a", []string{"x"}, []string{"y"}), ChangeValues("a", []string{"y"}, []string{"x"})},
		{Rename("a", "b"), Rename("b", "a")},
	}

	for _, tt := range tests {
		got, err := tt.op.Inverse()
		if err != nil {
			t.Fatalf("Inverse(%s): %v", tt.op, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Inverse(%s) mismatch (-want +got):\n%s", tt.op, diff)
		}
	}
}

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{Create("user_role", []string{"admin", "user"}), "CREATE_ENUM user_role (admin, user)"},
		{Drop("user_role", nil), "DROP_ENUM user_role (irreversible)"},
		{ChangeValues("user_role", []string{"a"}, []string{"b"}), "CHANGE_ENUM_VALUES user_role add=[a] remove=[b]"},
		{Rename("user_role", "user_kind"), "RENAME_ENUM user_role -> user_kind"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
